package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Sources reported for a loaded module.
const (
	SourceBundled = "bundled"
	SourceSystem  = "system"
)

// Loader attempts to make a native module resident in the current process.
// It reports where the module came from and whether the load succeeded.
// Implementations must be safe for concurrent use.
type Loader interface {
	TryLoad(name string) (source string, ok bool)
}

// NativeLoader loads shared libraries with the platform dynamic linker.
// Library directories are searched first (source "bundled"), then the bare
// library name is handed to the system search path (source "system").
//
// A module that loaded once stays resident and is not reopened. A failed
// load is retried on the next call. Concurrent loads of the same module
// share one attempt.
type NativeLoader struct {
	dirs []string
	open func(path string) error

	mu       sync.Mutex
	resident map[string]string
	group    singleflight.Group
}

// NewNativeLoader returns a loader that searches dirs before the system path.
func NewNativeLoader(dirs ...string) *NativeLoader {
	return &NativeLoader{dirs: dirs, open: dlopen, resident: make(map[string]string)}
}

// Resident returns a snapshot of the loaded modules and their sources.
func (l *NativeLoader) Resident() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.resident))
	for k, v := range l.resident {
		out[k] = v
	}
	return out
}

func (l *NativeLoader) TryLoad(name string) (string, bool) {
	l.mu.Lock()
	src, ok := l.resident[name]
	l.mu.Unlock()
	if ok {
		return src, true
	}
	v, err, _ := l.group.Do(name, func() (any, error) {
		src, err := l.load(name)
		if err != nil {
			return "", err
		}
		l.mu.Lock()
		l.resident[name] = src
		l.mu.Unlock()
		return src, nil
	})
	if err != nil {
		return "", false
	}
	return v.(string), true
}

func (l *NativeLoader) load(name string) (src string, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = "", fmt.Errorf("load %s: panic: %v", name, r)
		}
	}()
	file := LibraryFile(name)
	for _, dir := range l.dirs {
		p := filepath.Join(dir, file)
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		if openErr := l.open(p); openErr == nil {
			return SourceBundled, nil
		}
	}
	if openErr := l.open(file); openErr != nil {
		return "", fmt.Errorf("load %s: %w", name, openErr)
	}
	return SourceSystem, nil
}

// LibraryFile maps a module name to the platform's shared library file name.
func LibraryFile(name string) string {
	switch runtime.GOOS {
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

var errNoDynamicLoading = errors.New("dynamic loading not supported in this build")

// Static is a Loader backed by a fixed table of module name to source.
// Modules missing from the table fail to load. It is used for dry runs and
// in tests.
type Static map[string]string

func (s Static) TryLoad(name string) (string, bool) {
	src, ok := s[name]
	return src, ok
}
