package manager

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"mnnrunner/internal/cache"
	"mnnrunner/internal/dispatch"
	"mnnrunner/internal/resolver"
	"mnnrunner/internal/runconfig"
	"mnnrunner/internal/runerr"
	"mnnrunner/pkg/types"
)

// Submit validates req and starts the run in the background. Validation
// failures (ARG, MODEL) are returned synchronously and done is never called.
// Otherwise done receives exactly one outcome through the configured
// Poster. Backend resolution, plugin loading and cache selection happen on
// the run's goroutine, never on the caller's.
func (m *Manager) Submit(req runconfig.Request, done func(dispatch.Outcome)) (string, error) {
	cfg, err := runconfig.Normalize(req)
	if err != nil {
		kind := runerr.KindOf(err)
		m.rejected.Add(1)
		runsRejectedTotal.WithLabelValues(string(kind)).Inc()
		m.pub().Publish(Event{Name: EventRunRejected, Fields: map[string]any{"kind": string(kind), "error": err.Error()}})
		m.log.Info().Str("kind", string(kind)).Err(err).Msg("run rejected")
		return "", err
	}
	runID := uuid.NewString()
	m.runs.Add(1)
	m.inflight.Add(1)
	runsInflight.Inc()
	m.pub().Publish(Event{Name: EventRunAccepted, RunID: runID, Fields: map[string]any{
		"model":   cfg.ModelPath,
		"backend": string(cfg.Primary),
		"backup":  string(cfg.Backup),
		"profile": cfg.Profile,
	}})
	m.log.Info().
		Str("run_id", runID).
		Str("model", cfg.ModelPath).
		Str("requested", string(cfg.Primary)).
		Str("backup", string(cfg.Backup)).
		Int("inputs", len(cfg.Inputs)).
		Msg("run accepted")

	m.wg.Add(1)
	m.dispatcher().Go(runID, func() dispatch.Outcome {
		return m.execute(runID, cfg)
	}, func(o dispatch.Outcome) {
		defer m.wg.Done()
		m.finish(o)
		if done != nil {
			done(o)
		}
	})
	return runID, nil
}

// Run submits req and waits for its outcome. ctx bounds only the wait; an
// abandoned run still completes in the background. An outcome carrying a
// MODEL or RUN error is returned together with that error.
func (m *Manager) Run(ctx context.Context, req runconfig.Request) (dispatch.Outcome, error) {
	ch := make(chan dispatch.Outcome, 1)
	runID, err := m.Submit(req, func(o dispatch.Outcome) { ch <- o })
	if err != nil {
		return dispatch.Outcome{}, err
	}
	select {
	case o := <-ch:
		return o, o.Err
	case <-ctx.Done():
		return dispatch.Outcome{RunID: runID}, ctx.Err()
	}
}

// recheckModel confirms the model just before any native module is loaded.
var recheckModel = runconfig.Recheck

// execute runs on the dispatch goroutine. A model that vanished after
// validation fails the run before any plugin is loaded.
func (m *Manager) execute(runID string, cfg runconfig.Config) dispatch.Outcome {
	if err := recheckModel(cfg); err != nil {
		return dispatch.Outcome{Requested: cfg.Primary, Err: err}
	}
	m.prober.Ensure(cfg.Primary, cfg.Backup)
	d := m.resolver.Resolve(cfg.Primary, cfg.Backup)
	m.recordDecision(runID, d)

	cd := cache.Resolve(cfg.Cache, cfg.CacheFile, d.Backend, cfg.ModelPath, m.cacheDir)
	m.pub().Publish(Event{Name: EventCacheDecided, RunID: runID, Fields: map[string]any{
		"enabled": cd.Enabled,
		"path":    cd.Path,
		"backend": string(d.Backend),
	}})
	m.setLastCache(runID, cd.Path)

	return m.dispatcher().Invoke(dispatch.Job{RunID: runID, Config: cfg, Backend: d.Backend, Backup: d.Backup, Cache: cd})
}

func (m *Manager) recordDecision(runID string, d resolver.Decision) {
	for _, f := range d.Fallbacks {
		m.fallbacks.Add(1)
		backendFallbacksTotal.WithLabelValues(string(f.From), string(f.To)).Inc()
		m.pub().Publish(Event{Name: EventBackendSubstituted, RunID: runID, Fields: map[string]any{
			"role":   f.Role,
			"from":   string(f.From),
			"to":     string(f.To),
			"reason": f.Reason,
		}})
		m.log.Info().
			Str("run_id", runID).
			Str("role", f.Role).
			Str("fallback_from", string(f.From)).
			Str("fallback_to", string(f.To)).
			Str("reason", f.Reason).
			Msg("backend substituted")
	}
	st := &types.DecisionStatus{
		RunID:       runID,
		Requested:   string(d.Requested),
		Backend:     string(d.Backend),
		Backup:      string(d.Backup),
		Substituted: d.Substituted(),
	}
	for _, f := range d.Fallbacks {
		st.Fallbacks = append(st.Fallbacks, types.FallbackStatus{Role: f.Role, From: string(f.From), To: string(f.To), Reason: f.Reason})
	}
	m.mu.Lock()
	m.last = st
	m.mu.Unlock()
}

func (m *Manager) setLastCache(runID, path string) {
	m.mu.Lock()
	if m.last != nil && m.last.RunID == runID {
		m.last.CachePath = path
	}
	m.mu.Unlock()
}

// finish runs on the delivery context before the caller's callback.
func (m *Manager) finish(o dispatch.Outcome) {
	m.inflight.Add(-1)
	runsInflight.Dec()
	failed := o.Failed || o.Err != nil
	if failed {
		m.failed.Add(1)
	}
	label := string(o.Backend)
	if label == "" {
		label = "none"
	}
	runsTotal.WithLabelValues(label, resultLabel(failed)).Inc()
	runDuration.WithLabelValues(label, strconv.FormatBool(o.Profile)).Observe(o.Duration.Seconds())
	fields := map[string]any{
		"backend": label,
		"failed":  failed,
		"dur_ms":  o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		fields["error"] = o.Err.Error()
		fields["kind"] = string(runerr.KindOf(o.Err))
	}
	m.pub().Publish(Event{Name: EventRunFinished, RunID: o.RunID, Fields: fields})
	ev := m.log.Info()
	if failed {
		ev = m.log.Warn()
	}
	ev.Str("run_id", o.RunID).Str("backend", label).Bool("failed", failed).Dur("dur", o.Duration).Msg("run finished")
}
