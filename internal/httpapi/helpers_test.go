package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestItoa(t *testing.T) {
	for in, want := range map[int]string{0: "0", 7: "7", 200: "200", 404: "404", 1000: "1000"} {
		assert.Equal(t, want, itoa(in))
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelOff, parseLevel(""))
	assert.Equal(t, LevelOff, parseLevel("off"))
	assert.Equal(t, LevelError, parseLevel("error"))
	assert.Equal(t, LevelDebug, parseLevel("debug"))
	assert.Equal(t, LevelInfo, parseLevel("whatever"))
}

func TestRequestLogLevelOverrides(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/status?log=1", nil)
	assert.Equal(t, LevelDebug, requestLogLevel(r))

	r = httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set("X-Log-Level", "error")
	assert.Equal(t, LevelError, requestLogLevel(r))
}

func TestLogEventNilWithoutLogger(t *testing.T) {
	zlog = nil
	r := httptest.NewRequest(http.MethodGet, "/status?log=debug", nil)
	ev := logEvent(r, LevelInfo)
	assert.Nil(t, ev)
	// A nil event must be safe to use.
	ev.Str("k", "v").Msg("ignored")
}

func TestRoutePatternOrPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/models/info", nil)
	assert.Equal(t, "/models/info", routePatternOrPath(r))

	var seen string
	mux := chi.NewRouter()
	mux.Get("/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = routePatternOrPath(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/models/abc", nil))
	assert.Equal(t, "/models/{id}", seen)
}

func TestJoinContexts(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	ctx, cancel := joinContexts(a, context.Background())
	defer cancel()
	cancelA()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context not cancelled")
	}
}

func TestSetters(t *testing.T) {
	SetMaxBodyBytes(-1)
	assert.Equal(t, int64(1<<20), maxBodyBytes)
	SetMaxBodyBytes(10)
	assert.Equal(t, int64(10), maxBodyBytes)
	SetMaxBodyBytes(0)

	SetRunWaitSeconds(-5)
	assert.Equal(t, time.Duration(0), runWait)
	SetRunWaitSeconds(3)
	assert.Equal(t, 3*time.Second, runWait)
	SetRunWaitSeconds(0)

	SetBaseContext(nil)
	assert.NotNil(t, serverBaseCtx)
}

func TestWaitContextHonorsRunWait(t *testing.T) {
	SetRunWaitSeconds(1)
	t.Cleanup(func() { SetRunWaitSeconds(0) })
	ctx, cancel := waitContext(httptest.NewRequest(http.MethodPost, "/run", nil))
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestWaitContextStopsOnShutdown(t *testing.T) {
	base, shutdown := context.WithCancel(context.Background())
	SetBaseContext(base)
	t.Cleanup(func() { SetBaseContext(nil) })

	r := httptest.NewRequest(http.MethodPost, "/run", nil)
	ctx, cancel := waitContext(r)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
	assert.False(t, abandoned(r))

	shutdown()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("wait context survived shutdown")
	}
	assert.True(t, abandoned(r))
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	sr := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: 200}
	_, _ = sr.Write([]byte("x"))
	sr.WriteHeader(http.StatusTeapot)
	assert.Equal(t, 200, sr.status)

	sr = &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: 200}
	sr.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sr.status)
	assert.Equal(t, "ok", resultLabel(false))
	assert.Equal(t, "failed", resultLabel(true))
}
