// Package cache decides whether a GPU run persists its compiled kernels and
// where the cache file lives.
package cache

import (
	"path/filepath"
	"strings"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/common/fsutil"
)

// Suffix is appended to derived cache file names.
const Suffix = ".cache"

// Decision says whether the engine should use a kernel cache. Path is empty
// whenever Enabled is false.
type Decision struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// Resolve picks the cache for one run.
//
// An explicit path is used as given, whatever the flag and backend. Without
// one, the cache is enabled only when flag is set and kind compiles kernels
// (VULKAN, OPENCL); the file is <dir>/<model base name>_<KIND>.cache and dir
// is created on demand. A blank dir or a failure to create it disables the
// cache.
func Resolve(flag bool, explicit string, kind backend.Kind, modelPath, dir string) Decision {
	if p := strings.TrimSpace(explicit); p != "" {
		return Decision{Enabled: true, Path: p}
	}
	if !flag || !kind.Cacheable() {
		return Decision{}
	}
	if strings.TrimSpace(dir) == "" {
		return Decision{}
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return Decision{}
	}
	return Decision{Enabled: true, Path: filepath.Join(dir, FileName(modelPath, kind))}
}

// FileName is the derived cache file name for a model and backend. The
// model's extension is dropped: /m/net.mnn on VULKAN is net_VULKAN.cache.
func FileName(modelPath string, kind backend.Kind) string {
	base := filepath.Base(modelPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_" + string(kind) + Suffix
}
