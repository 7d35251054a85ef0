package dispatch

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/engine"
	"mnnrunner/internal/runconfig"
	"mnnrunner/internal/runerr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeEngine struct {
	run     func(engine.Invocation) (string, error)
	profile func(engine.Invocation) (string, error)
	calls   atomic.Int32
}

func (f *fakeEngine) Run(_ context.Context, inv engine.Invocation) (string, error) {
	f.calls.Add(1)
	return f.run(inv)
}

func (f *fakeEngine) RunProfile(_ context.Context, inv engine.Invocation) (string, error) {
	f.calls.Add(1)
	return f.profile(inv)
}

func (f *fakeEngine) ModelInfo(context.Context, string) (string, error) { return "{}", nil }

func job(profile bool) Job {
	return Job{
		RunID:   "run-1",
		Config:  runconfig.Config{ModelPath: "/m.mnn", Inputs: []runconfig.Input{{Shape: []int{1}}}, Threads: 4, Profile: profile},
		Backend: backend.Vulkan,
	}
}

func await(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
		return Outcome{}
	}
}

func TestDispatchSuccess(t *testing.T) {
	eng := &fakeEngine{run: func(inv engine.Invocation) (string, error) {
		return "MNN 3.1.0 OK backend=" + string(inv.Backend), nil
	}}
	d := New(eng, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	d.Dispatch(job(false), func(o Outcome) { ch <- o })
	o := await(t, ch)
	d.Wait()
	assert.Equal(t, "MNN 3.1.0 OK backend=VULKAN", o.Text)
	assert.Equal(t, "run-1", o.RunID)
	assert.Equal(t, backend.Vulkan, o.Backend)
	assert.False(t, o.Failed)
	assert.NoError(t, o.Err)
	assert.Equal(t, int32(1), eng.calls.Load())
}

func TestDispatchPassesJobBackup(t *testing.T) {
	got := make(chan backend.Kind, 1)
	eng := &fakeEngine{run: func(inv engine.Invocation) (string, error) {
		got <- inv.Backup
		return "ok", nil
	}}
	d := New(eng, nil, zerolog.Nop())
	j := job(false)
	j.Config.Backup = backend.OpenCL
	j.Backup = backend.Vulkan
	ch := make(chan Outcome, 1)
	d.Dispatch(j, func(o Outcome) { ch <- o })
	await(t, ch)
	d.Wait()
	assert.Equal(t, backend.Vulkan, <-got)
}

func TestDispatchProfileUsesProfileEntry(t *testing.T) {
	eng := &fakeEngine{
		run:     func(engine.Invocation) (string, error) { return "plain", nil },
		profile: func(engine.Invocation) (string, error) { return `{"profile":true}`, nil },
	}
	d := New(eng, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	d.Dispatch(job(true), func(o Outcome) { ch <- o })
	o := await(t, ch)
	d.Wait()
	assert.Equal(t, `{"profile":true}`, o.Text)
	assert.True(t, o.Profile)
}

func TestEngineErrorBecomesText(t *testing.T) {
	eng := &fakeEngine{run: func(engine.Invocation) (string, error) { return "", errors.New("createSession failed") }}
	d := New(eng, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	d.Dispatch(job(false), func(o Outcome) { ch <- o })
	o := await(t, ch)
	d.Wait()
	assert.Equal(t, "engine error: createSession failed", o.Text)
	assert.True(t, o.Failed)
	assert.NoError(t, o.Err)
}

func TestEnginePanicBecomesText(t *testing.T) {
	eng := &fakeEngine{run: func(engine.Invocation) (string, error) { panic("segv in kernel") }}
	d := New(eng, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	d.Dispatch(job(false), func(o Outcome) { ch <- o })
	o := await(t, ch)
	d.Wait()
	assert.Equal(t, "engine panic: segv in kernel", o.Text)
	assert.True(t, o.Failed)
}

func TestTaskPanicIsRunError(t *testing.T) {
	d := New(&fakeEngine{}, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	d.Go("run-2", func() Outcome { panic("resolver bug") }, func(o Outcome) { ch <- o })
	o := await(t, ch)
	d.Wait()
	require.Error(t, o.Err)
	assert.True(t, runerr.IsKind(o.Err, runerr.Run))
	assert.Equal(t, "run-2", o.RunID)
}

func TestDeliverPanicContained(t *testing.T) {
	eng := &fakeEngine{run: func(engine.Invocation) (string, error) { return "ok", nil }}
	d := New(eng, nil, zerolog.Nop())
	d.Dispatch(job(false), func(Outcome) { panic("ui crashed") })
	d.Wait()
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	eng := &fakeEngine{run: func(engine.Invocation) (string, error) {
		<-release
		return "done", nil
	}}
	d := New(eng, nil, zerolog.Nop())
	ch := make(chan Outcome, 1)
	returned := make(chan struct{})
	go func() {
		d.Dispatch(job(false), func(o Outcome) { ch <- o })
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the engine")
	}
	close(release)
	assert.Equal(t, "done", await(t, ch).Text)
	d.Wait()
}

func TestLoopDeliversExactlyOncePerRunInOrder(t *testing.T) {
	loop := NewLoop(4)
	eng := &fakeEngine{run: func(inv engine.Invocation) (string, error) { return inv.RunID, nil }}
	d := New(eng, loop, zerolog.Nop())

	const n = 20
	var mu sync.Mutex
	seen := map[string]int{}
	var loopG atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		j := job(false)
		j.RunID = string(rune('a' + i))
		d.Dispatch(j, func(o Outcome) {
			// callbacks never overlap on the loop
			assert.Equal(t, int32(1), loopG.Add(1))
			mu.Lock()
			seen[o.Text]++
			mu.Unlock()
			loopG.Add(-1)
			wg.Done()
		})
	}
	wg.Wait()
	d.Wait()
	loop.Close()
	assert.Len(t, seen, n)
	for id, c := range seen {
		assert.Equal(t, 1, c, id)
	}
}

func TestLoopPostAfterClose(t *testing.T) {
	loop := NewLoop(1)
	loop.Close()
	ran := false
	loop.Post(func() { ran = true })
	assert.True(t, ran)
	loop.Close()
}

func TestLoopCallbackMayPostPastBacklog(t *testing.T) {
	loop := NewLoop(1)
	const n = 10
	var order []int
	finished := make(chan struct{})
	loop.Post(func() {
		// the loop goroutine itself fills the queue well past its backlog
		for i := 0; i < n; i++ {
			i := i
			loop.Post(func() {
				order = append(order, i)
				if i == n-1 {
					close(finished)
				}
			})
		}
	})
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("loop deadlocked on a re-entrant post")
	}
	loop.Close()
	require.Len(t, order, n)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestLoopCloseDrainsPending(t *testing.T) {
	loop := NewLoop(2)
	block := make(chan struct{})
	var ran atomic.Int32
	loop.Post(func() { <-block })
	for i := 0; i < 5; i++ {
		loop.Post(func() { ran.Add(1) })
	}
	close(block)
	loop.Close()
	assert.Equal(t, int32(5), ran.Load())
}

func TestUnavailableEngineLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	d := New(engine.Unavailable{}, nil, zerolog.New(&buf))
	o := d.Invoke(job(false))
	assert.True(t, o.Failed)
	assert.Contains(t, o.Text, "engine error: ")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "engine unavailable")

	buf.Reset()
	failing := &fakeEngine{run: func(engine.Invocation) (string, error) { return "", errors.New("bad op") }}
	New(failing, nil, zerolog.New(&buf)).Invoke(job(false))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "engine failed")
}
