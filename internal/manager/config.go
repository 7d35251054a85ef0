package manager

import (
	"github.com/rs/zerolog"

	"mnnrunner/internal/dispatch"
	"mnnrunner/internal/engine"
	"mnnrunner/internal/probe"
	"mnnrunner/internal/resolver"
	"mnnrunner/pkg/types"
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// Registry of models discovered at startup.
	Registry []types.Model
	// Engine executes runs. Nil means engine.Unavailable.
	Engine engine.Engine
	// RunnerBin is reported by SanityCheck when the engine is an external
	// runner.
	RunnerBin string
	// Loader loads native backend modules. Nil means nothing loads and every
	// run goes to CPU.
	Loader probe.Loader
	// Modules overrides the native module names; empty fields use defaults.
	Modules probe.Modules
	// CacheDir holds derived kernel cache files. Empty disables derived
	// caches; explicit cache paths still apply.
	CacheDir string
	// ModelsDir is checked by Preflight.
	ModelsDir string
	// Poster delivers outcomes. Nil delivers on the run's goroutine.
	Poster dispatch.Poster
	// Publisher receives lifecycle events. Nil drops them.
	Publisher EventPublisher
	// Logger for run lifecycle logs. Nil disables logging.
	Logger *zerolog.Logger
}

// New constructs a Manager from Config.
func New(cfg Config) *Manager {
	m := &Manager{
		registry:  append([]types.Model(nil), cfg.Registry...),
		runnerBin: cfg.RunnerBin,
		cacheDir:  cfg.CacheDir,
		modelsDir: cfg.ModelsDir,
		poster:    cfg.Poster,
		publisher: cfg.Publisher,
		log:       zerolog.Nop(),
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	m.loader = cfg.Loader
	m.prober = probe.New(cfg.Loader, cfg.Modules)
	m.resolver = resolver.New(m.prober)
	m.SetEngine(cfg.Engine)
	m.startTime = timeNow()
	return m
}
