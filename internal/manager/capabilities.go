package manager

import (
	"fmt"
	"time"

	"mnnrunner/internal/probe"
	"mnnrunner/internal/runerr"
	"mnnrunner/pkg/types"
)

// Capabilities probes every backend now. It never reports a missing backend
// as an error; PROBE is returned only if probing itself fails.
func (m *Manager) Capabilities() (rep probe.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("capability probe panicked")
			rep, err = probe.Report{}, runerr.ErrProbe(fmt.Sprintf("probe failed: %v", r))
		}
	}()
	start := time.Now()
	rep = m.prober.Probe()
	probeDuration.Observe(time.Since(start).Seconds())
	m.log.Debug().
		Bool("vulkan", rep.Vulkan.Available).
		Bool("opencl", rep.OpenCL.Available).
		Bool("opengl", rep.OpenGL.Available).
		Dur("dur", time.Since(start)).
		Msg("capabilities probed")
	return rep, nil
}

// CapabilitiesView renders a report in the host's JSON shape.
func CapabilitiesView(rep probe.Report) types.CapabilitiesResponse {
	return types.CapabilitiesResponse{
		CPU:    types.CPUStatus{Available: true},
		Vulkan: backendStatus(rep.Vulkan),
		OpenCL: backendStatus(rep.OpenCL),
		OpenGL: backendStatus(rep.OpenGL),
	}
}

func backendStatus(c probe.Capability) types.BackendStatus {
	s := types.BackendStatus{Available: c.Available, Lib: c.LoaderPresent, Plugin: c.PluginPresent}
	if c.Source != "" {
		src := c.Source
		s.Source = &src
	}
	return s
}
