package manager

import (
	"context"
	"fmt"
	"strings"

	"mnnrunner/internal/runconfig"
	"mnnrunner/internal/runerr"
)

// ModelInfo returns the engine's JSON description of the model's inputs.
// A blank path is ARG, an absent or unreadable model is MODEL and any
// engine failure is INFO.
func (m *Manager) ModelInfo(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", runerr.ErrArg("modelPath is required")
	}
	abs, err := runconfig.CheckModel(path)
	if err != nil {
		return "", err
	}
	out, err := m.safeModelInfo(ctx, abs)
	if err != nil {
		m.log.Warn().Str("model", abs).Err(err).Msg("model info failed")
		return "", runerr.Wrap(runerr.Info, "model info", err)
	}
	return out, nil
}

func (m *Manager) safeModelInfo(ctx context.Context, path string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("engine panic: %v", r)
		}
	}()
	return m.engine().ModelInfo(ctx, path)
}
