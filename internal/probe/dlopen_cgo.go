//go:build cgo && (linux || darwin)

package probe

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

// dlopen makes the library at path resident. Handles are never closed;
// a plugin stays loaded for the life of the process.
func dlopen(path string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_GLOBAL)
	if h == nil {
		if msg := C.dlerror(); msg != nil {
			return errors.New(C.GoString(msg))
		}
		return errors.New("dlopen failed")
	}
	return nil
}
