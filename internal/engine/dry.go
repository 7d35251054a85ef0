package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"mnnrunner/internal/common/fsutil"
)

// ProfileReport is the JSON document returned by a profiling run.
type ProfileReport struct {
	Profile bool          `json:"profile"`
	Backend string        `json:"backend"`
	Backup  string        `json:"backup"`
	Threads int           `json:"threads"`
	Metrics ProfileTiming `json:"metrics"`
	Outputs []TensorShape `json:"outputs"`
	Ops     []OpTiming    `json:"ops"`
}

// ProfileTiming holds the wall time of each setup phase in milliseconds.
type ProfileTiming struct {
	CreateInterpreterMs float64 `json:"createInterpreter_ms"`
	CreateSessionMs     float64 `json:"createSession_ms"`
	ResizeSessionMs     float64 `json:"resizeSession_ms"`
	RunSessionMs        float64 `json:"runSession_ms"`
}

type TensorShape struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape"`
}

type OpTiming struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Ms   float64 `json:"ms"`
}

// Dry is an engine that validates an invocation without executing a model.
// Outputs mirror the inputs. It backs the CLI's --dry-run and lets a host
// exercise resolution and caching on machines without the native runtime.
type Dry struct{}

func (Dry) Run(ctx context.Context, inv Invocation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	outs := make([]string, 0, len(inv.Inputs))
	for _, in := range inv.Inputs {
		name := in.Name
		if name == "" {
			name = "output"
		}
		outs = append(outs, fmt.Sprintf("%s[%s]", name, FormatShape(in.Shape)))
	}
	s := fmt.Sprintf("DRY-RUN OK backend=%s outputs=%s", inv.Backend, strings.Join(outs, ","))
	if inv.Cache.Enabled {
		s += " cache=" + inv.Cache.Path
	}
	return s, nil
}

func (Dry) RunProfile(ctx context.Context, inv Invocation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	rep := ProfileReport{
		Profile: true,
		Backend: string(inv.Backend),
		Backup:  string(inv.Backup),
		Threads: inv.Threads,
		Outputs: make([]TensorShape, 0, len(inv.Inputs)),
		Ops:     []OpTiming{},
	}
	for _, in := range inv.Inputs {
		rep.Outputs = append(rep.Outputs, TensorShape{Name: in.Name, Shape: in.Shape})
	}
	rep.Metrics.RunSessionMs = float64(time.Since(start).Microseconds()) / 1000
	b, err := json.Marshal(rep)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (Dry) ModelInfo(ctx context.Context, modelPath string) (string, error) {
	if err := fsutil.CheckReadableFile(modelPath); err != nil {
		return "", err
	}
	return `{"inputs":[]}`, nil
}
