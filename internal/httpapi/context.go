package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is cancelled when the process shuts down. Handlers that wait
// on a run stop waiting once it is done.
var serverBaseCtx = context.Background()

// SetBaseContext installs the shutdown context. Nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// waitContext bounds how long a handler waits for a run outcome: until the
// client leaves, the server shuts down, or the configured run wait elapses.
// The run itself never sees this context.
func waitContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if runWait <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, runWait)
	return tctx, func() {
		tcancel()
		cancel()
	}
}

// joinContexts returns a context cancelled when either parent is done.
// Calling cancel releases the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(b)
	stop := context.AfterFunc(a, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// abandoned reports whether nobody is left to receive a response.
func abandoned(r *http.Request) bool {
	return r.Context().Err() != nil || serverBaseCtx.Err() != nil
}
