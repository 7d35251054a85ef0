//go:build !cgo || !(linux || darwin)

package probe

// dlopen is unavailable without cgo; every native module reports as absent
// and runs degrade to CPU.
func dlopen(string) error { return errNoDynamicLoading }
