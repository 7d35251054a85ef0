package registry

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestMNNScanner_ScanFiltersMNN(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.mnn",
		"b.MNN", // case-insensitive
		"not-model.txt",
		"model.gguf",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("xyz"), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mnn"), 0o755); err != nil {
		t.Fatal(err)
	}
	models, err := NewMNNScanner().Scan(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].ID != "a" || models[1].ID != "b" {
		t.Fatalf("unexpected ids: %+v", models)
	}
	for _, m := range models {
		if !strings.EqualFold(filepath.Ext(m.Path), ".mnn") || !filepath.IsAbs(m.Path) {
			t.Fatalf("bad path: %s", m.Path)
		}
		if m.SizeBytes != 3 {
			t.Fatalf("expected size 3, got %d", m.SizeBytes)
		}
	}
}

func TestMNNScanner_ExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir on this platform: %v", err)
	}
	hTmp, err := os.MkdirTemp(home, "mnnrunner-registry-*")
	if err != nil {
		t.Skipf("cannot create temp under home: %v", err)
	}
	defer os.RemoveAll(hTmp)
	if err := os.WriteFile(filepath.Join(hTmp, "x.mnn"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var tildePath string
	if runtime.GOOS == "windows" {
		tildePath = filepath.Join("~", filepath.Base(hTmp))
	} else {
		tildePath = "~/" + filepath.Base(hTmp)
	}
	models, err := LoadDir(tildePath)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(models) != 1 || models[0].Name != "x.mnn" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
