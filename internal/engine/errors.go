package engine

// unavailableError signals that no native runtime is wired into this build
// or configuration.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err means the engine itself is missing.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
