package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mnnrunner/internal/engine"
)

// recordingEngine captures invocations and answers with fixed results.
type recordingEngine struct {
	mu      sync.Mutex
	invs    []engine.Invocation
	result  func(engine.Invocation) (string, error)
	info    string
	infoErr error
}

func (e *recordingEngine) Run(_ context.Context, inv engine.Invocation) (string, error) {
	e.mu.Lock()
	e.invs = append(e.invs, inv)
	e.mu.Unlock()
	if e.result != nil {
		return e.result(inv)
	}
	return "MNN 3.1.0 OK backend=" + string(inv.Backend) + " outputs=prob[1x1000]", nil
}

func (e *recordingEngine) RunProfile(ctx context.Context, inv engine.Invocation) (string, error) {
	e.mu.Lock()
	e.invs = append(e.invs, inv)
	e.mu.Unlock()
	return `{"profile":true,"backend":"` + string(inv.Backend) + `"}`, nil
}

func (e *recordingEngine) ModelInfo(context.Context, string) (string, error) {
	return e.info, e.infoErr
}

func (e *recordingEngine) invocations() []engine.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Invocation(nil), e.invs...)
}

// loaderFunc adapts a function to probe.Loader.
type loaderFunc func(name string) (string, bool)

func (f loaderFunc) TryLoad(name string) (string, bool) { return f(name) }

func writeModel(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mobilenet.mnn")
	if err := os.WriteFile(p, []byte("mnn"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

// testContext returns a cancellable context that will be canceled by the test cleanup.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
