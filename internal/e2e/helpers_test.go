package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mnnrunner/internal/engine"
	"mnnrunner/internal/httpapi"
	"mnnrunner/internal/manager"
	"mnnrunner/internal/probe"
	"mnnrunner/internal/registry"
)

// createTempModelsDir creates a temporary directory populated with small
// .mnn files and returns the directory path.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("mnn"), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// newServer starts an httptest server over a Manager for modelsDir whose
// native loader resolves only the given modules.
func newServer(t *testing.T, modelsDir string, eng engine.Engine, loaded probe.Static) (*httptest.Server, *manager.Manager, *manager.MemoryPublisher) {
	t.Helper()
	reg, err := registry.NewMNNScanner().Scan(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	pub := manager.NewMemoryPublisher()
	mgr := manager.New(manager.Config{
		Registry:  reg,
		Engine:    eng,
		Loader:    loaded,
		CacheDir:  t.TempDir(),
		ModelsDir: modelsDir,
		Publisher: pub,
	})
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(func() {
		srv.Close()
		mgr.Close()
	})
	return srv, mgr, pub
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func httpPostJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

// jsonString quotes s for embedding in a JSON literal.
func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}

// panicEngine panics on every run.
type panicEngine struct{ engine.Dry }

func (panicEngine) Run(context.Context, engine.Invocation) (string, error) {
	panic("native crash")
}
