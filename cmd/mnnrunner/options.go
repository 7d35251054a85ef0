package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mnnrunner/internal/config"
	"mnnrunner/internal/runerr"
)

// options are the persistent settings shared by every subcommand. Flags
// override the config file, which overrides environment defaults.
type options struct {
	ConfigPath string
	LogLevel   string
	config.Config
}

func defaultOptions() *options {
	o := &options{
		ConfigPath: os.Getenv("MNNRUNNER_CONFIG"),
		LogLevel:   envStr("MNNRUNNER_LOG_LEVEL", "info"),
	}
	o.Addr = envStr("MNNRUNNER_ADDR", ":8080")
	o.ModelsDir = "~/models/mnn"
	if dir, err := os.UserCacheDir(); err == nil {
		o.CacheDir = filepath.Join(dir, "mnnrunner")
	}
	o.MaxBodyBytes = 1 << 20
	return o
}

// applyFile merges values from the config file into o, skipping any that a
// flag has already set.
func (o *options) applyFile(cmd *cobra.Command) error {
	if o.ConfigPath == "" {
		return nil
	}
	fc, err := config.Load(o.ConfigPath)
	if err != nil {
		return runerr.Wrap(runerr.Arg, "load config", err)
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	setStr := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setStr("addr", &o.Addr, fc.Addr)
	setStr("models-dir", &o.ModelsDir, fc.ModelsDir)
	setStr("cache-dir", &o.CacheDir, fc.CacheDir)
	setStr("runner-bin", &o.RunnerBin, fc.RunnerBin)
	setStr("log-level", &o.LogLevel, fc.LogLevel)
	if len(fc.LibDirs) > 0 && !changed("lib-dir") {
		o.LibDirs = fc.LibDirs
	}
	if len(fc.RunnerArgs) > 0 && !changed("runner-arg") {
		o.RunnerArgs = fc.RunnerArgs
	}
	if len(fc.CORSOrigins) > 0 && !changed("cors-origins") {
		o.CORSOrigins = fc.CORSOrigins
	}
	if fc.CORSEnabled && !changed("cors") {
		o.CORSEnabled = true
	}
	if fc.MaxBodyBytes > 0 && !changed("max-body-bytes") {
		o.MaxBodyBytes = fc.MaxBodyBytes
	}
	if fc.RunWaitSecs > 0 && !changed("run-wait") {
		o.RunWaitSecs = fc.RunWaitSecs
	}
	o.Modules = fc.Modules
	return nil
}

// exitCode maps an error kind to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, errRunFailed) {
		return 1
	}
	switch runerr.KindOf(err) {
	case runerr.Arg:
		return 2
	case runerr.Model:
		return 3
	case runerr.Info:
		return 4
	case runerr.Probe:
		return 5
	case runerr.Run:
		return 6
	default:
		return 1
	}
}

func joinCSV(ss []string) string { return strings.Join(ss, ",") }

// splitCSV splits a comma-separated list into trimmed, non-empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseDims parses "1,3,224,224" into dimensions. Validation of the values
// is left to the normalizer.
func parseDims(s string) ([]int, error) {
	fields := splitCSV(s)
	if len(fields) == 0 {
		return nil, runerr.ErrArg("empty shape")
	}
	dims := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, runerr.ErrArg("invalid shape " + strconv.Quote(s))
		}
		dims = append(dims, n)
	}
	return dims, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
