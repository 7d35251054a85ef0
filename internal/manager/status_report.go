package manager

import (
	"fmt"

	"mnnrunner/internal/engine"
	"mnnrunner/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	resp := types.StatusResponse{
		State:          "ready",
		Engine:         engineName(m.engine()),
		Inflight:       m.inflight.Load(),
		RunsTotal:      m.runs.Load(),
		RejectedTotal:  m.rejected.Load(),
		FailedTotal:    m.failed.Load(),
		FallbacksTotal: m.fallbacks.Load(),
		CacheDir:       m.cacheDir,
		UptimeSeconds:  int64(timeNow().Sub(m.startTime).Seconds()),
		ServerTimeUnix: timeNow().Unix(),
	}
	if !m.Ready() {
		resp.State = "degraded"
	}
	m.mu.RLock()
	if m.last != nil {
		cp := *m.last
		cp.Fallbacks = append([]types.FallbackStatus(nil), m.last.Fallbacks...)
		resp.LastDecision = &cp
	}
	m.mu.RUnlock()
	return resp
}

func engineName(e engine.Engine) string {
	switch e.(type) {
	case engine.Unavailable:
		return "unavailable"
	case *engine.Exec:
		return "exec"
	case engine.Dry:
		return "dry"
	default:
		return fmt.Sprintf("%T", e)
	}
}
