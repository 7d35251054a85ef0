package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mnnrunner/internal/dispatch"
	"mnnrunner/internal/manager"
	"mnnrunner/internal/probe"
	"mnnrunner/internal/runconfig"
	"mnnrunner/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Ready() bool
	Capabilities() (probe.Report, error)
	ModelInfo(ctx context.Context, path string) (string, error)
	Run(ctx context.Context, req types.RunRequest) (dispatch.Outcome, error)
	Preflight() []types.CheckResult
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: orDefault(corsAllowedOrigins, []string{"*"}),
			AllowedMethods: orDefault(corsAllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			AllowedHeaders: orDefault(corsAllowedHeaders, []string{"Content-Type", "X-Log-Level", "X-Request-Id"}),
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/capabilities", func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Capabilities()
		if err != nil {
			writeError(w, err)
			logEvent(r, LevelError).Err(err).Msg("capabilities failed")
			return
		}
		writeJSON(w, http.StatusOK, manager.CapabilitiesView(rep))
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/models/info", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		out, err := svc.ModelInfo(r.Context(), path)
		if err != nil {
			status := writeError(w, err)
			logEvent(r, LevelInfo).Int("status", status).Err(err).Msg("model info")
			return
		}
		body := []byte(out)
		if !json.Valid(body) {
			// relay non-JSON engine output as a string field
			body, _ = json.Marshal(map[string]string{"info": out})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})

	r.Post("/run", func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "ARG", "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		req, err := runconfig.Decode(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		start := time.Now()
		logEvent(r, LevelInfo).Str("model", req.ModelPath).Str("backend", req.Backend).Msg("run start")

		ctx, cancel := waitContext(r)
		defer cancel()
		out, err := svc.Run(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				observeRun("", "timeout")
				writeJSONError(w, http.StatusGatewayTimeout, "RUN", "run "+out.RunID+" still executing")
				return
			}
			if abandoned(r) {
				return
			}
			observeRun("", "error")
			status := writeError(w, err)
			logEvent(r, LevelInfo).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("run end")
			return
		}
		observeRun(string(out.Backend), resultLabel(out.Failed))
		writeJSON(w, http.StatusOK, types.RunResponse{
			RunID:      out.RunID,
			Requested:  string(out.Requested),
			Backend:    string(out.Backend),
			Outcome:    out.Text,
			Profile:    out.Profile,
			Failed:     out.Failed,
			DurationMs: out.Duration.Milliseconds(),
		})
		logEvent(r, LevelInfo).
			Str("run_id", out.RunID).
			Str("backend", string(out.Backend)).
			Bool("failed", out.Failed).
			Dur("dur", time.Since(start)).
			Msg("run end")
		logEvent(r, LevelDebug).Str("run_id", out.RunID).Str("outcome", out.Text).Msg("run outcome")
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/preflight", func(w http.ResponseWriter, r *http.Request) {
		checks := svc.Preflight()
		writeJSON(w, http.StatusOK, types.PreflightResponse{OK: PreflightOK(checks), Checks: checks})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no engine"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// PreflightOK reports whether every non-backend check passed. A missing GPU
// backend is not a failure.
func PreflightOK(checks []types.CheckResult) bool {
	for _, c := range checks {
		if strings.HasPrefix(c.Name, "backend_") {
			continue
		}
		if !c.OK {
			return false
		}
	}
	return true
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
