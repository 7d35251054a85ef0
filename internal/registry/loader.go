package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mnnrunner/internal/common/fsutil"
	"mnnrunner/pkg/types"
)

// ModelExt is the file extension of MNN models.
const ModelExt = ".mnn"

// Scanner discovers model files in a directory.
type Scanner interface {
	Scan(dir string) ([]types.Model, error)
}

// MNNScanner matches *.mnn files, case-insensitively, without recursing.
type MNNScanner struct{}

func NewMNNScanner() Scanner { return MNNScanner{} }

func (MNNScanner) Scan(dir string) ([]types.Model, error) { return LoadDir(dir) }

// LoadDir scans a directory for *.mnn files and builds a registry from filenames.
// ID is the filename without extension; Path is the absolute file path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ModelExt) {
			continue
		}
		m := types.Model{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Name: name,
			Path: filepath.Join(abs, name),
		}
		if fi, err := e.Info(); err == nil {
			m.SizeBytes = fi.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}
