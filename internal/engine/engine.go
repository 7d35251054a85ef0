// Package engine is the boundary to the native MNN inference runtime. The
// runner never interprets model contents; it hands the engine a fully
// resolved invocation and relays whatever text comes back.
package engine

import (
	"context"
	"strconv"
	"strings"

	"mnnrunner/internal/backend"
	"mnnrunner/internal/cache"
	"mnnrunner/internal/runconfig"
)

// Invocation is one engine call with every decision already made.
type Invocation struct {
	RunID     string                `json:"runId,omitempty"`
	ModelPath string                `json:"modelPath"`
	Inputs    []runconfig.Input     `json:"inputs"`
	Backend   backend.Kind          `json:"backend"`
	Backup    backend.Kind          `json:"backupType"`
	Memory    backend.MemoryMode    `json:"memoryMode"`
	Precision backend.PrecisionMode `json:"precisionMode"`
	Power     backend.PowerMode     `json:"powerMode"`
	Threads   int                   `json:"threads"`
	Fill      backend.FillPolicy    `json:"inputFill"`
	Cache     cache.Decision        `json:"cache"`
}

// NewInvocation builds the invocation for cfg on the resolved backend and
// backup. A blank backup keeps the one from cfg.
func NewInvocation(runID string, cfg runconfig.Config, kind, backup backend.Kind, c cache.Decision) Invocation {
	if backup == "" {
		backup = cfg.Backup
	}
	return Invocation{
		RunID:     runID,
		ModelPath: cfg.ModelPath,
		Inputs:    cfg.Inputs,
		Backend:   kind,
		Backup:    backup,
		Memory:    cfg.Memory,
		Precision: cfg.Precision,
		Power:     cfg.Power,
		Threads:   cfg.Threads,
		Fill:      cfg.Fill,
		Cache:     c,
	}
}

// Engine executes models. Implementations may block for as long as the
// model takes and may panic; callers are expected to contain both.
type Engine interface {
	// Run executes the model once and returns the engine's result text.
	Run(ctx context.Context, inv Invocation) (string, error)
	// RunProfile executes the model with per-op timing and returns a JSON
	// profile report.
	RunProfile(ctx context.Context, inv Invocation) (string, error)
	// ModelInfo returns the model's input description as JSON.
	ModelInfo(ctx context.Context, modelPath string) (string, error)
}

// FormatShape renders dims as 1x3x224x224.
func FormatShape(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
