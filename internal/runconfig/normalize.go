// Package runconfig validates run requests and turns them into the canonical
// configuration consumed by resolution, cache selection and dispatch.
package runconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/common/fsutil"
	"mnnrunner/internal/runerr"
)

// Input is one named input tensor shape. Name is empty for single-input
// requests.
type Input struct {
	Name  string `json:"name,omitempty"`
	Shape []int  `json:"shape"`
}

// Config is a validated run request.
type Config struct {
	ModelPath string                `json:"modelPath"`
	Inputs    []Input               `json:"inputs"`
	Primary   backend.Kind          `json:"backend"`
	Backup    backend.Kind          `json:"backupType"`
	Memory    backend.MemoryMode    `json:"memoryMode"`
	Precision backend.PrecisionMode `json:"precisionMode"`
	Power     backend.PowerMode     `json:"powerMode"`
	Threads   int                   `json:"threads"`
	Fill      backend.FillPolicy    `json:"inputFill"`
	Profile   bool                  `json:"profile"`
	Cache     bool                  `json:"cache"`
	CacheFile string                `json:"cacheFile,omitempty"`
}

// Normalize validates req. Malformed requests fail with an ARG error, an
// absent or unreadable model with a MODEL error.
func Normalize(req Request) (Config, error) {
	var cfg Config
	if strings.TrimSpace(req.ModelPath) == "" {
		return cfg, runerr.ErrArg("modelPath is required")
	}
	inputs, err := parseShapes(req.InputShape, req.InputShapes)
	if err != nil {
		return cfg, err
	}
	cfg.Inputs = inputs

	if cfg.Primary, err = backend.Parse(req.Backend, backend.CPU); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "backend", err)
	}
	if cfg.Backup, err = backend.Parse(req.Backup(), backend.CPU); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "backupType", err)
	}
	if cfg.Memory, err = backend.ParseMemory(req.MemoryMode); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "", err)
	}
	if cfg.Precision, err = backend.ParsePrecision(req.PrecisionMode); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "", err)
	}
	if cfg.Power, err = backend.ParsePower(req.PowerMode); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "", err)
	}
	if cfg.Fill, err = backend.ParseFill(req.InputFill); err != nil {
		return Config{}, runerr.Wrap(runerr.Arg, "", err)
	}
	cfg.Threads = backend.DefaultThreads
	if req.Threads != nil {
		if *req.Threads <= 0 {
			return Config{}, runerr.ErrArg(fmt.Sprintf("threads must be positive, got %d", *req.Threads))
		}
		cfg.Threads = *req.Threads
	}
	cfg.Profile = req.Profile
	cfg.Cache = req.Cache
	cfg.CacheFile = strings.TrimSpace(req.CacheFile)

	path, err := CheckModel(req.ModelPath)
	if err != nil {
		return Config{}, err
	}
	cfg.ModelPath = path
	return cfg, nil
}

// Recheck confirms the model is still present and readable. It runs right
// before dispatch since the file may have moved since normalization.
func Recheck(cfg Config) error {
	_, err := CheckModel(cfg.ModelPath)
	return err
}

// CheckModel resolves path to an absolute path and verifies it names a
// readable regular file.
func CheckModel(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", runerr.ErrArg("modelPath is required")
	}
	p, err := fsutil.ExpandHome(p)
	if err != nil {
		return "", runerr.Wrap(runerr.Model, "model not accessible: "+path, err)
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if err := fsutil.CheckReadableFile(p); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return "", runerr.ErrModel("model not found: " + p)
		case errors.Is(err, fsutil.ErrIsDir):
			return "", runerr.ErrModel("model path is a directory: " + p)
		default:
			return "", runerr.Wrap(runerr.Model, "model not accessible: "+p, err)
		}
	}
	return p, nil
}

// parseShapes accepts either a single flat shape or a name→shape mapping.
// A non-empty mapping wins. Entries are sorted by name.
func parseShapes(flat []int, named map[string][]int) ([]Input, error) {
	if len(named) > 0 {
		names := make([]string, 0, len(named))
		for name := range named {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]Input, 0, len(names))
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				return nil, runerr.ErrArg("inputShapes: empty input name")
			}
			if err := checkDims(named[name]); err != nil {
				return nil, runerr.ErrArg(fmt.Sprintf("inputShapes[%s]: %v", name, err))
			}
			out = append(out, Input{Name: name, Shape: append([]int(nil), named[name]...)})
		}
		return out, nil
	}
	if flat == nil {
		return nil, runerr.ErrArg("inputShape or inputShapes is required")
	}
	if err := checkDims(flat); err != nil {
		return nil, runerr.ErrArg("inputShape: " + err.Error())
	}
	return []Input{{Shape: append([]int(nil), flat...)}}, nil
}

func checkDims(dims []int) error {
	if len(dims) == 0 {
		return errors.New("shape is empty")
	}
	for i, d := range dims {
		if d <= 0 {
			return fmt.Errorf("dimension %d is %d, must be positive", i, d)
		}
	}
	return nil
}
