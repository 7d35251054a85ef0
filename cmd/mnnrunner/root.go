package main

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mnnrunner/internal/engine"
	"mnnrunner/internal/manager"
	"mnnrunner/internal/probe"
	"mnnrunner/internal/registry"
)

var (
	errRunFailed = errors.New("run failed")
	errPreflight = errors.New("preflight failed")
)

// buildRootCmd constructs the command tree over o.
func buildRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "mnnrunner",
		Short:         "Probe MNN backends and run MNN models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.ConfigPath, "config", o.ConfigPath, "Config file (.yaml, .json, .toml); defaults MNNRUNNER_CONFIG")
	pf.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug|info|warn|error (defaults MNNRUNNER_LOG_LEVEL or info)")
	pf.StringVar(&o.ModelsDir, "models-dir", o.ModelsDir, "Directory to scan for *.mnn model files")
	pf.StringVar(&o.CacheDir, "cache-dir", o.CacheDir, "Directory for GPU kernel cache files")
	pf.StringSliceVar(&o.LibDirs, "lib-dir", o.LibDirs, "Directory searched first for bundled backend libraries (repeatable)")
	pf.StringVar(&o.RunnerBin, "runner-bin", o.RunnerBin, "External MNN runner executable")
	pf.StringSliceVar(&o.RunnerArgs, "runner-arg", o.RunnerArgs, "Extra leading argument for the runner (repeatable)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return o.applyFile(cmd)
	}

	root.AddCommand(
		newServeCmd(o),
		newProbeCmd(o),
		newInfoCmd(o),
		newRunCmd(o),
		newModelsCmd(o),
		newPreflightCmd(o),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) zerolog.Logger {
	return newLogger(cmd.ErrOrStderr(), o.LogLevel)
}

// newManager wires a Manager from o. A nil eng selects the external runner
// when one is configured.
func (o *options) newManager(log zerolog.Logger, eng engine.Engine) *manager.Manager {
	if eng == nil {
		eng = o.engine()
	}
	reg, err := registry.LoadDir(o.ModelsDir)
	if err != nil {
		log.Debug().Err(err).Str("models_dir", o.ModelsDir).Msg("model registry unavailable")
	}
	return manager.New(manager.Config{
		Registry:  reg,
		Engine:    eng,
		RunnerBin: o.RunnerBin,
		Loader:    probe.NewNativeLoader(o.LibDirs...),
		Modules:   o.Modules,
		CacheDir:  o.CacheDir,
		ModelsDir: o.ModelsDir,
		Logger:    &log,
	})
}

func (o *options) engine() engine.Engine {
	if strings.TrimSpace(o.RunnerBin) == "" {
		return engine.Unavailable{}
	}
	return engine.NewExec(o.RunnerBin, o.RunnerArgs...)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
