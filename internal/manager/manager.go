package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mnnrunner/internal/dispatch"
	"mnnrunner/internal/engine"
	"mnnrunner/internal/probe"
	"mnnrunner/internal/resolver"
	"mnnrunner/pkg/types"
)

var timeNow = time.Now

type Manager struct {
	mu        sync.RWMutex
	registry  []types.Model
	runnerBin string
	cacheDir  string
	modelsDir string
	poster    dispatch.Poster
	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time

	loader   probe.Loader
	prober   *probe.Prober
	resolver *resolver.Resolver
	disp     *dispatch.Dispatcher
	wg       sync.WaitGroup // accepted runs not yet delivered

	inflight  atomic.Int64
	runs      atomic.Uint64
	rejected  atomic.Uint64
	failed    atomic.Uint64
	fallbacks atomic.Uint64
	last      *types.DecisionStatus
}

// SetEngine swaps the engine used for subsequent runs. Call it before
// submitting runs; in-flight runs keep the engine they started with.
func (m *Manager) SetEngine(eng engine.Engine) {
	if eng == nil {
		eng = engine.Unavailable{}
	}
	d := dispatch.New(eng, m.poster, m.log)
	m.mu.Lock()
	m.disp = d
	m.mu.Unlock()
}

// SetPublisher installs an EventPublisher. Nil restores the no-op publisher.
func (m *Manager) SetPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.publisher = noopPublisher{}
		return
	}
	m.publisher = p
}

// Prober exposes the capability prober.
func (m *Manager) Prober() *probe.Prober { return m.prober }

// Ready reports whether runs can reach a native engine.
func (m *Manager) Ready() bool {
	_, unavailable := m.engine().(engine.Unavailable)
	return !unavailable
}

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// SetRegistry replaces the model registry, e.g. after a rescan.
func (m *Manager) SetRegistry(models []types.Model) {
	m.mu.Lock()
	m.registry = append([]types.Model(nil), models...)
	m.mu.Unlock()
}

// Close waits for every accepted run to deliver, including runs started on
// an engine since replaced by SetEngine. Runs cannot be cancelled, so this
// blocks for as long as the slowest engine call. It must not be called from
// a delivery callback.
func (m *Manager) Close() {
	m.wg.Wait()
}

func (m *Manager) dispatcher() *dispatch.Dispatcher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disp
}

func (m *Manager) engine() engine.Engine { return m.dispatcher().Engine() }

func (m *Manager) pub() EventPublisher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.publisher
}
