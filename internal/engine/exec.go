package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"
)

// Runner subcommands understood by the native runner binary.
const (
	cmdRun     = "run"
	cmdProfile = "profile"
	cmdInfo    = "info"
)

const stderrTail = 4096

// Exec drives a native runner binary. Each call spawns
//
//	<bin> run|profile     (invocation JSON on stdin)
//	<bin> info <model>
//
// and returns trimmed stdout. A non-zero exit is an error carrying the tail
// of stderr.
type Exec struct {
	Bin  string
	Args []string
	Env  []string
}

// NewExec returns an Exec engine for bin with extra leading args.
func NewExec(bin string, args ...string) *Exec {
	return &Exec{Bin: bin, Args: args}
}

func (e *Exec) Run(ctx context.Context, inv Invocation) (string, error) {
	return e.invoke(ctx, cmdRun, inv)
}

func (e *Exec) RunProfile(ctx context.Context, inv Invocation) (string, error) {
	return e.invoke(ctx, cmdProfile, inv)
}

func (e *Exec) ModelInfo(ctx context.Context, modelPath string) (string, error) {
	return e.spawn(ctx, nil, cmdInfo, modelPath)
}

func (e *Exec) invoke(ctx context.Context, sub string, inv Invocation) (string, error) {
	body, err := json.Marshal(inv)
	if err != nil {
		return "", fmt.Errorf("encode invocation: %w", err)
	}
	return e.spawn(ctx, body, sub)
}

func (e *Exec) spawn(ctx context.Context, stdin []byte, sub string, extra ...string) (string, error) {
	if strings.TrimSpace(e.Bin) == "" {
		return "", ErrUnavailable(notBundled)
	}
	args := append(append(append([]string{}, e.Args...), sub), extra...)
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	if len(e.Env) > 0 {
		cmd.Env = e.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	if err := cmd.Start(); err != nil {
		var ee *exec.Error
		if errors.As(err, &ee) {
			err = ee.Err
		}
		return "", ErrUnavailable(fmt.Sprintf("runner %s: %v", e.Bin, err))
	}
	if err := cmd.Wait(); err != nil {
		tail := stderr.String()
		if len(tail) > stderrTail {
			tail = tail[len(tail)-stderrTail:]
		}
		return "", fmt.Errorf("runner %s exited: %v; stderr tail: %s", sub, err, strings.TrimSpace(tail))
	}
	return strings.TrimSpace(stdout.String()), nil
}
