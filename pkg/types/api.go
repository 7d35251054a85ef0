package types

import "strings"

// RunRequest is the payload of POST /run and of the CLI's request files.
// Field names follow the mobile host's JSON contract.
type RunRequest struct {
	// Path to the .mnn model file.
	// example: /home/user/models/mobilenet_v2.mnn
	ModelPath string `json:"modelPath" example:"/home/user/models/mobilenet_v2.mnn"`
	// Shape of the single input tensor. Ignored when inputShapes is non-empty.
	// example: [1,3,224,224]
	InputShape []int `json:"inputShape,omitempty" example:"1,3,224,224"`
	// Shapes of named input tensors for multi-input models.
	InputShapes map[string][]int `json:"inputShapes,omitempty"`
	// Preferred backend: CPU, VULKAN, OPENCL or OPENGL.
	// example: OPENCL
	Backend string `json:"backend,omitempty" example:"OPENCL"`
	// Backend used when the preferred one cannot run.
	// example: CPU
	BackupType string `json:"backupType,omitempty" example:"CPU"`
	// Legacy spelling of backupType.
	BackupTypeAlt string `json:"backup_type,omitempty"`
	// LOW, BALANCED or HIGH.
	// example: BALANCED
	MemoryMode string `json:"memoryMode,omitempty" example:"BALANCED"`
	// LOW, NORMAL or HIGH.
	// example: NORMAL
	PrecisionMode string `json:"precisionMode,omitempty" example:"NORMAL"`
	// LOW, NORMAL or HIGH.
	// example: NORMAL
	PowerMode string `json:"powerMode,omitempty" example:"NORMAL"`
	// Engine worker threads (default 4).
	// example: 4
	Threads *int `json:"threads,omitempty" example:"4"`
	// ZERO, ONE, UNIFORM or NORMAL.
	// example: ZERO
	InputFill string `json:"inputFill,omitempty" example:"ZERO"`
	// Return a per-op profile report instead of the plain result.
	Profile bool `json:"profile,omitempty"`
	// Persist compiled GPU kernels between runs.
	// example: true
	Cache bool `json:"cache,omitempty" example:"true"`
	// Explicit kernel cache file; enables caching on its own.
	CacheFile string `json:"cacheFile,omitempty"`
}

// Backup returns the backup backend name, accepting either spelling.
// backupType wins when both are set.
func (r RunRequest) Backup() string {
	if strings.TrimSpace(r.BackupType) != "" {
		return r.BackupType
	}
	return r.BackupTypeAlt
}

// RunResponse is returned by POST /run once the run has finished.
type RunResponse struct {
	// Identifier assigned when the run was accepted.
	// example: 6f1c2a4e-8d0b-4d8e-9a55-0b8a1f3e2c77
	RunID string `json:"run_id" example:"6f1c2a4e-8d0b-4d8e-9a55-0b8a1f3e2c77"`
	// Backend requested by the caller.
	// example: OPENCL
	Requested string `json:"requested" example:"OPENCL"`
	// Backend that actually ran.
	// example: VULKAN
	Backend string `json:"backend" example:"VULKAN"`
	// Engine result text, engine failure text, or a profile JSON document.
	// example: MNN 3.1.0 OK backend=VULKAN outputs=prob[1x1000]
	Outcome string `json:"outcome" example:"MNN 3.1.0 OK backend=VULKAN outputs=prob[1x1000]"`
	// True when outcome is a profile report.
	Profile bool `json:"profile"`
	// True when the engine reported a failure.
	Failed bool `json:"failed"`
	// Wall time of the engine call in milliseconds.
	// example: 42
	DurationMs int64 `json:"duration_ms" example:"42"`
}

// CPUStatus reports the always-available CPU backend.
type CPUStatus struct {
	Available bool `json:"available" example:"true"`
}

// BackendStatus reports one optional GPU backend.
type BackendStatus struct {
	// Whether the backend can run.
	Available bool `json:"available" example:"true"`
	// Whether the system loader library loaded.
	Lib bool `json:"lib" example:"true"`
	// Whether the MNN plugin library loaded.
	Plugin bool `json:"plugin" example:"true"`
	// Where the plugin was found: bundled, system, or null.
	// example: bundled
	Source *string `json:"source" example:"bundled"`
}

// CapabilitiesResponse is returned by GET /capabilities.
type CapabilitiesResponse struct {
	CPU    CPUStatus     `json:"cpu"`
	Vulkan BackendStatus `json:"vulkan"`
	OpenCL BackendStatus `json:"opencl"`
	OpenGL BackendStatus `json:"opengl"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: /models/missing.mnn
	Error string `json:"error" example:"model not found: /models/missing.mnn"`
	// Error kind: ARG, MODEL, PROBE, INFO or RUN.
	// example: MODEL
	Kind string `json:"kind,omitempty" example:"MODEL"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// FallbackStatus describes one backend substitution.
type FallbackStatus struct {
	Role   string `json:"role" example:"primary"`
	From   string `json:"from" example:"OPENCL"`
	To     string `json:"to" example:"VULKAN"`
	Reason string `json:"reason" example:"opencl plugin unavailable"`
}

// DecisionStatus is the most recent backend resolution. Substituted is true
// when the running backend differs from the requested one.
type DecisionStatus struct {
	RunID       string           `json:"run_id"`
	Requested   string           `json:"requested" example:"OPENCL"`
	Backend     string           `json:"backend" example:"VULKAN"`
	Backup      string           `json:"backup" example:"CPU"`
	Substituted bool             `json:"substituted" example:"true"`
	Fallbacks   []FallbackStatus `json:"fallbacks,omitempty"`
	CachePath   string           `json:"cache_path,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state: ready, or degraded when no engine is configured.
	// example: ready
	State string `json:"state" example:"ready"`
	// Engine implementation in use.
	// example: exec
	Engine string `json:"engine" example:"exec"`
	// Runs currently executing.
	// example: 1
	Inflight int64 `json:"inflight" example:"1"`
	// Runs accepted since start.
	// example: 12
	RunsTotal uint64 `json:"runs_total" example:"12"`
	// Requests rejected during validation.
	// example: 2
	RejectedTotal uint64 `json:"rejected_total" example:"2"`
	// Runs whose outcome was an engine failure or internal error.
	// example: 1
	FailedTotal uint64 `json:"failed_total" example:"1"`
	// Backend substitutions since start.
	// example: 3
	FallbacksTotal uint64 `json:"fallbacks_total" example:"3"`
	// Kernel cache directory.
	CacheDir string `json:"cache_dir,omitempty"`
	// Last backend decision made.
	LastDecision *DecisionStatus `json:"last_decision,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// CheckResult is one preflight check.
type CheckResult struct {
	Name    string `json:"name" example:"runner_bin_found"`
	OK      bool   `json:"ok" example:"true"`
	Message string `json:"message,omitempty"`
}

// PreflightResponse is returned by GET /preflight.
type PreflightResponse struct {
	OK     bool          `json:"ok"`
	Checks []CheckResult `json:"checks"`
}
