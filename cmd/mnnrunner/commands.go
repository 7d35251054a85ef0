package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mnnrunner/internal/engine"
	"mnnrunner/internal/httpapi"
	"mnnrunner/internal/manager"
	"mnnrunner/internal/runconfig"
	"mnnrunner/internal/runerr"
	"mnnrunner/pkg/types"
)

func newProbeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "probe",
		Short:   "Report which backends can run on this machine",
		Example: "  mnnrunner probe --lib-dir ./lib",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := o.newManager(o.logger(cmd), engine.Unavailable{})
			rep, err := m.Capabilities()
			if err != nil {
				return err
			}
			return printJSON(cmd, manager.CapabilitiesView(rep))
		},
	}
}

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "info <model>",
		Short:   "Describe a model's inputs",
		Example: "  mnnrunner info ~/models/mnn/mobilenet_v2.mnn --runner-bin mnn-runner",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := o.newManager(o.logger(cmd), nil)
			out, err := m.ModelInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(strings.TrimRight(out, "\n") + "\n"))
			return err
		},
	}
}

type runFlags struct {
	file      string
	model     string
	shape     string
	inputs    []string
	backend   string
	backup    string
	memory    string
	precision string
	power     string
	threads   int
	fill      string
	profile   bool
	cache     bool
	cacheFile string
	dryRun    bool
}

// request builds a run request from the request file, if any, with flags
// layered on top.
func (f *runFlags) request(cmd *cobra.Command) (types.RunRequest, error) {
	var req types.RunRequest
	if f.file != "" {
		b, err := os.ReadFile(f.file)
		if err != nil {
			return req, runerr.Wrap(runerr.Arg, "read request file", err)
		}
		if req, err = runconfig.DecodeBytes(b); err != nil {
			return req, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("model") {
		req.ModelPath = f.model
	}
	if changed("shape") {
		dims, err := parseDims(f.shape)
		if err != nil {
			return req, err
		}
		req.InputShape = dims
	}
	for _, in := range f.inputs {
		name, dims, ok := strings.Cut(in, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return req, runerr.ErrArg("invalid --input " + in + " (want name=d0,d1,...)")
		}
		shape, err := parseDims(dims)
		if err != nil {
			return req, err
		}
		if req.InputShapes == nil {
			req.InputShapes = map[string][]int{}
		}
		req.InputShapes[strings.TrimSpace(name)] = shape
	}
	set := func(flag string, dst *string, v string) {
		if changed(flag) {
			*dst = v
		}
	}
	set("backend", &req.Backend, f.backend)
	set("backup", &req.BackupType, f.backup)
	set("memory", &req.MemoryMode, f.memory)
	set("precision", &req.PrecisionMode, f.precision)
	set("power", &req.PowerMode, f.power)
	set("fill", &req.InputFill, f.fill)
	set("cache-file", &req.CacheFile, f.cacheFile)
	if changed("threads") {
		n := f.threads
		req.Threads = &n
	}
	if changed("profile") {
		req.Profile = f.profile
	}
	if changed("cache") {
		req.Cache = f.cache
	}
	return req, nil
}

func newRunCmd(o *options) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a model once and print the outcome",
		Example: "  mnnrunner run --model m.mnn --shape 1,3,224,224 --backend OPENCL --backup CPU\n" +
			"  mnnrunner run --file request.json --dry-run",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			var eng engine.Engine
			if f.dryRun {
				eng = engine.Dry{}
			}
			m := o.newManager(o.logger(cmd), eng)
			defer m.Close()
			out, err := m.Run(context.Background(), req)
			if err != nil {
				return err
			}
			if perr := printJSON(cmd, types.RunResponse{
				RunID:      out.RunID,
				Requested:  string(out.Requested),
				Backend:    string(out.Backend),
				Outcome:    out.Text,
				Profile:    out.Profile,
				Failed:     out.Failed,
				DurationMs: out.Duration.Milliseconds(),
			}); perr != nil {
				return perr
			}
			if out.Failed {
				return errRunFailed
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "JSON run request; flags override its fields")
	fl.StringVarP(&f.model, "model", "m", "", "Path to the .mnn model")
	fl.StringVar(&f.shape, "shape", "", "Single input shape, e.g. 1,3,224,224")
	fl.StringArrayVar(&f.inputs, "input", nil, "Named input shape name=d0,d1,... (repeatable)")
	fl.StringVarP(&f.backend, "backend", "b", "", "CPU|VULKAN|OPENCL|OPENGL")
	fl.StringVar(&f.backup, "backup", "", "Backup backend when the preferred one cannot run")
	fl.StringVar(&f.memory, "memory", "", "LOW|BALANCED|HIGH")
	fl.StringVar(&f.precision, "precision", "", "LOW|NORMAL|HIGH")
	fl.StringVar(&f.power, "power", "", "LOW|NORMAL|HIGH")
	fl.IntVarP(&f.threads, "threads", "t", 0, "Engine worker threads (default 4)")
	fl.StringVar(&f.fill, "fill", "", "ZERO|ONE|UNIFORM|NORMAL")
	fl.BoolVar(&f.profile, "profile", false, "Print a per-op profile report")
	fl.BoolVar(&f.cache, "cache", false, "Persist compiled GPU kernels in the cache dir")
	fl.StringVar(&f.cacheFile, "cache-file", "", "Explicit kernel cache file")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Resolve and validate without executing the model")
	return cmd
}

func newModelsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List *.mnn models in the models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := o.newManager(o.logger(cmd), engine.Unavailable{})
			return printJSON(cmd, types.ModelsResponse{Models: m.ListModels()})
		},
	}
}

func newPreflightCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the runner, directories and backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := o.newManager(o.logger(cmd), nil)
			checks := m.Preflight()
			ok := httpapi.PreflightOK(checks)
			if err := printJSON(cmd, types.PreflightResponse{OK: ok, Checks: checks}); err != nil {
				return err
			}
			if !ok {
				return errPreflight
			}
			return nil
		},
	}
}
