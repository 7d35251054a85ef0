// Package runerr carries the error taxonomy shared by the runner's public
// operations. Every error that crosses the Go API, the HTTP bridge or the CLI
// is a *Error with one of the kinds below.
package runerr

import "errors"

// Kind classifies a failure for the caller.
type Kind string

const (
	// Arg is a malformed or incomplete request.
	Arg Kind = "ARG"
	// Model is a missing or unreadable model file.
	Model Kind = "MODEL"
	// Probe is an unexpected failure while probing capabilities.
	Probe Kind = "PROBE"
	// Info is an engine failure while introspecting a model.
	Info Kind = "INFO"
	// Run is an unexpected failure inside a dispatched run.
	Run Kind = "RUN"
)

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func ErrArg(msg string) error   { return New(Arg, msg) }
func ErrModel(msg string) error { return New(Model, msg) }
func ErrProbe(msg string) error { return New(Probe, msg) }
func ErrInfo(msg string) error  { return New(Info, msg) }
func ErrRun(msg string) error   { return New(Run, msg) }

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

// Message returns the bare message of a classified error, or err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
