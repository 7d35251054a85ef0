package manager

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/common/fsutil"
	"mnnrunner/pkg/types"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	EngineEnabled bool   `json:"engine_enabled"`
	RunnerFound   bool   `json:"runner_found"`
	RunnerPath    string `json:"runner_path,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SanityCheck validates that the configured runner binary is usable.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{EngineEnabled: m.Ready()}
	if m.runnerBin == "" {
		if !r.EngineEnabled {
			r.Error = "no engine configured"
		}
		return r
	}
	bin := m.runnerBin
	if filepath.Base(bin) == bin {
		if p, err := exec.LookPath(bin); err == nil {
			bin = p
		}
	}
	r.RunnerPath = bin
	fi, err := os.Stat(bin)
	switch {
	case err != nil:
		r.Error = err.Error()
	case fi.IsDir():
		r.Error = "runner path is a directory"
	case fi.Mode()&0o111 == 0:
		r.Error = "runner is not executable"
	default:
		r.RunnerFound = true
	}
	return r
}

// Preflight runs every startup check and reports each result. Backend
// checks are informational: a missing GPU backend only means runs fall back.
func (m *Manager) Preflight() []types.CheckResult {
	var out []types.CheckResult
	s := m.SanityCheck()
	out = append(out, types.CheckResult{Name: "engine_configured", OK: s.EngineEnabled, Message: engineName(m.engine())})
	if m.runnerBin != "" {
		out = append(out, types.CheckResult{Name: "runner_bin_found", OK: s.RunnerFound, Message: firstNonEmpty(s.Error, s.RunnerPath)})
	}
	if m.cacheDir != "" {
		out = append(out, checkWritableDir("cache_dir_writable", m.cacheDir))
	}
	if m.modelsDir != "" {
		out = append(out, checkReadableDir("models_dir_readable", m.modelsDir))
	}
	rep, err := m.Capabilities()
	if err != nil {
		return append(out, types.CheckResult{Name: "capabilities_probe", OK: false, Message: err.Error()})
	}
	for _, k := range []backend.Kind{backend.Vulkan, backend.OpenCL, backend.OpenGL} {
		c := rep.Get(k)
		msg := "unavailable"
		if c.Available {
			msg = c.Source
		}
		out = append(out, types.CheckResult{Name: "backend_" + strings.ToLower(string(k)) + "_available", OK: c.Available, Message: msg})
	}
	if r, ok := m.loader.(residentLoader); ok {
		out = append(out, residentCheck(r.Resident()))
	}
	return out
}

// residentLoader is a Loader that can list the modules it holds, such as
// probe.NativeLoader.
type residentLoader interface {
	Resident() map[string]string
}

// residentCheck lists loaded native modules as name=source. It is
// informational and always passes.
func residentCheck(mods map[string]string) types.CheckResult {
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + mods[name]
	}
	msg := strings.Join(parts, ",")
	if msg == "" {
		msg = "none"
	}
	return types.CheckResult{Name: "modules_resident", OK: true, Message: msg}
}

func checkReadableDir(name, dir string) types.CheckResult {
	c := types.CheckResult{Name: name}
	path, err := fsutil.ExpandHome(dir)
	if err != nil {
		c.Message = err.Error()
		return c
	}
	c.Message = path
	if !fsutil.PathExists(path) {
		c.Message = "missing: " + path
		return c
	}
	if _, err := os.ReadDir(path); err != nil {
		c.Message = err.Error()
		return c
	}
	c.OK = true
	return c
}

func checkWritableDir(name, dir string) types.CheckResult {
	c := types.CheckResult{Name: name, Message: dir}
	if err := fsutil.EnsureDir(dir); err != nil {
		c.Message = err.Error()
		return c
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		c.Message = err.Error()
		return c
	}
	tmp := f.Name()
	_ = f.Close()
	_ = os.Remove(tmp)
	c.OK = true
	return c
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
