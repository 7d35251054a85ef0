// Package resolver turns a requested primary/backup backend pair into the
// backend that will actually run. The result is always CPU or a backend the
// prober reported available.
package resolver

import (
	"mnnrunner/internal/backend"
	"mnnrunner/internal/probe"
)

// Source is the part of the prober the resolver needs.
type Source interface {
	Probe() probe.Report
	VulkanRuntime() bool
}

// Fallback records one substitution made during resolution.
type Fallback struct {
	Role   string       `json:"role"`
	From   backend.Kind `json:"from"`
	To     backend.Kind `json:"to"`
	Reason string       `json:"reason"`
}

// Roles used in Fallback.Role.
const (
	RolePrimary = "primary"
	RoleBackup  = "backup"
)

// Plan is the result of the request-time substitutions.
type Plan struct {
	Requested backend.Kind
	Primary   backend.Kind
	Backup    backend.Kind
	Fallbacks []Fallback
	report    *probe.Report
}

// Decision is the final backend for a run.
type Decision struct {
	Requested backend.Kind `json:"requested"`
	Backend   backend.Kind `json:"backend"`
	Backup    backend.Kind `json:"backup"`
	Fallbacks []Fallback   `json:"fallbacks,omitempty"`
}

// Substituted reports whether the running backend differs from the request.
func (d Decision) Substituted() bool { return d.Backend != d.Requested }

// Resolver applies the fallback order against a live Source, probing only
// when a rule needs it.
type Resolver struct {
	src Source
}

func New(src Source) *Resolver { return &Resolver{src: src} }

// Plan applies the OPENCL substitution to the primary and the backup. A
// request that never names OPENCL does not probe.
func (r *Resolver) Plan(primary, backup backend.Kind) Plan {
	if backup == "" {
		backup = backend.CPU
	}
	p := Plan{Requested: primary, Primary: primary, Backup: backup}
	if primary != backend.OpenCL && backup != backend.OpenCL {
		return p
	}
	rep := r.src.Probe()
	p.report = &rep
	if to, ok := substituteOpenCL(primary, rep); ok {
		p.Fallbacks = append(p.Fallbacks, Fallback{Role: RolePrimary, From: primary, To: to, Reason: "opencl plugin unavailable"})
		p.Primary = to
	}
	if to, ok := substituteOpenCL(backup, rep); ok {
		p.Fallbacks = append(p.Fallbacks, Fallback{Role: RoleBackup, From: backup, To: to, Reason: "opencl plugin unavailable"})
		p.Backup = to
	}
	return p
}

// Verify runs the dispatch-time checks on a plan. A VULKAN primary that
// fails the runtime check moves to OPENCL when a fresh probe allows it,
// otherwise to the backup. Whatever is picked must be available or the run
// goes to CPU.
func (r *Resolver) Verify(p Plan) Decision {
	d := Decision{Requested: p.Requested, Backend: p.Primary, Backup: p.Backup, Fallbacks: p.Fallbacks}
	switch p.Primary {
	case backend.CPU:
		return d
	case backend.Vulkan:
		if r.src.VulkanRuntime() {
			return d
		}
		rep := r.src.Probe()
		to := backend.OpenCL
		reason := "vulkan runtime check failed"
		if !rep.OpenCL.Available {
			to = p.Backup
		}
		d.Fallbacks = append(d.Fallbacks, Fallback{Role: RolePrimary, From: backend.Vulkan, To: to, Reason: reason})
		d.Backend = guard(&d, to, rep)
		return d
	default:
		rep := r.report(p)
		if rep.Available(p.Primary) {
			return d
		}
		d.Fallbacks = append(d.Fallbacks, Fallback{Role: RolePrimary, From: p.Primary, To: p.Backup, Reason: string(p.Primary) + " unavailable"})
		d.Backend = guard(&d, p.Backup, rep)
		return d
	}
}

// Resolve plans and verifies in one step.
func (r *Resolver) Resolve(primary, backup backend.Kind) Decision {
	return r.Verify(r.Plan(primary, backup))
}

func (r *Resolver) report(p Plan) probe.Report {
	if p.report != nil {
		return *p.report
	}
	return r.src.Probe()
}

// guard returns k when it is CPU or available in rep, otherwise CPU.
func guard(d *Decision, k backend.Kind, rep probe.Report) backend.Kind {
	if k == backend.CPU || k == "" {
		return backend.CPU
	}
	if rep.Available(k) {
		return k
	}
	d.Fallbacks = append(d.Fallbacks, Fallback{Role: RoleBackup, From: k, To: backend.CPU, Reason: string(k) + " unavailable"})
	return backend.CPU
}

func substituteOpenCL(k backend.Kind, rep probe.Report) (backend.Kind, bool) {
	if k != backend.OpenCL || rep.OpenCL.Available {
		return k, false
	}
	if rep.Vulkan.Available {
		return backend.Vulkan, true
	}
	return backend.CPU, true
}

// Resolve is the pure form of the fallback order over a single report. The
// Vulkan runtime check is taken from the report.
func Resolve(primary, backup backend.Kind, rep probe.Report) backend.Kind {
	return New(staticSource(rep)).Resolve(primary, backup).Backend
}

type staticSource probe.Report

func (s staticSource) Probe() probe.Report { return probe.Report(s) }
func (s staticSource) VulkanRuntime() bool { return s.Vulkan.Available }
