// Package dispatch runs model invocations off the caller's goroutine and
// hands exactly one outcome back through the caller's Poster. Nothing that
// happens inside a run escapes as a panic.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/cache"
	"mnnrunner/internal/engine"
	"mnnrunner/internal/runconfig"
	"mnnrunner/internal/runerr"
)

// Outcome is the single result of a run. Err is set only for failures the
// engine never saw (a vanished model, an internal fault); engine failures
// arrive as Text with Failed set.
type Outcome struct {
	RunID     string        `json:"run_id"`
	Requested backend.Kind  `json:"requested,omitempty"`
	Backend   backend.Kind  `json:"backend,omitempty"`
	Text      string        `json:"outcome"`
	Profile   bool          `json:"profile,omitempty"`
	Failed    bool          `json:"failed,omitempty"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// Job is a normalized run bound to its final backend, backup and cache
// decision. A blank Backup keeps the configured one.
type Job struct {
	RunID   string
	Config  runconfig.Config
	Backend backend.Kind
	Backup  backend.Kind
	Cache   cache.Decision
}

// Dispatcher owns the background execution of runs.
type Dispatcher struct {
	eng    engine.Engine
	poster Poster
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// New returns a Dispatcher. A nil poster delivers inline on the worker.
func New(eng engine.Engine, poster Poster, log zerolog.Logger) *Dispatcher {
	if eng == nil {
		eng = engine.Unavailable{}
	}
	if poster == nil {
		poster = Immediate{}
	}
	return &Dispatcher{eng: eng, poster: poster, log: log}
}

// Engine returns the engine runs are sent to.
func (d *Dispatcher) Engine() engine.Engine { return d.eng }

// Dispatch executes job on a new goroutine and delivers its outcome.
func (d *Dispatcher) Dispatch(job Job, deliver func(Outcome)) {
	d.Go(job.RunID, func() Outcome { return d.Invoke(job) }, deliver)
}

// Go runs task on a new goroutine and delivers its result through the
// poster. A panicking task yields a RUN error outcome.
func (d *Dispatcher) Go(runID string, task func() Outcome, deliver func(Outcome)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		start := time.Now()
		out := d.safeTask(runID, task)
		out.RunID = runID
		if out.Duration == 0 {
			out.Duration = time.Since(start)
		}
		d.poster.Post(func() { d.safeDeliver(runID, deliver, out) })
	}()
}

// Wait blocks until every started run has delivered or handed its outcome
// to the poster.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Invoke calls the engine once for job on the current goroutine. Engine
// errors and panics become failure text.
func (d *Dispatcher) Invoke(job Job) Outcome {
	inv := engine.NewInvocation(job.RunID, job.Config, job.Backend, job.Backup, job.Cache)
	out := Outcome{RunID: job.RunID, Requested: job.Config.Primary, Backend: job.Backend, Profile: job.Config.Profile}
	start := time.Now()
	text, err := d.callEngine(job.Config.Profile, inv)
	out.Duration = time.Since(start)
	if err != nil {
		out.Failed = true
		if p, ok := err.(enginePanic); ok {
			out.Text = fmt.Sprintf("engine panic: %v", p.v)
		} else {
			out.Text = "engine error: " + err.Error()
		}
		if engine.IsUnavailable(err) {
			d.log.Error().Str("run_id", job.RunID).Err(err).Msg("engine unavailable")
		} else {
			d.log.Warn().Str("run_id", job.RunID).Str("backend", string(job.Backend)).Err(err).Msg("engine failed")
		}
		return out
	}
	out.Text = text
	return out
}

func (d *Dispatcher) callEngine(profile bool, inv engine.Invocation) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", enginePanic{v: r}
		}
	}()
	ctx := context.Background()
	if profile {
		return d.eng.RunProfile(ctx, inv)
	}
	return d.eng.Run(ctx, inv)
}

func (d *Dispatcher) safeTask(runID string, task func() Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("run_id", runID).Interface("panic", r).Msg("run task panicked")
			out = Outcome{Err: runerr.ErrRun(fmt.Sprintf("run failed: %v", r))}
		}
	}()
	return task()
}

func (d *Dispatcher) safeDeliver(runID string, deliver func(Outcome), out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("run_id", runID).Interface("panic", r).Msg("outcome callback panicked")
		}
	}()
	if deliver != nil {
		deliver(out)
	}
}

// enginePanic carries a value recovered from the engine.
type enginePanic struct{ v any }

func (e enginePanic) Error() string { return fmt.Sprintf("panic: %v", e.v) }
