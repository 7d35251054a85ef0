package manager

import "mnnrunner/internal/runerr"

// Error kinds returned by Manager operations.
const (
	KindArg   = runerr.Arg
	KindModel = runerr.Model
	KindProbe = runerr.Probe
	KindInfo  = runerr.Info
	KindRun   = runerr.Run
)

// IsArg reports whether err is a malformed-request error (HTTP 400).
func IsArg(err error) bool { return runerr.IsKind(err, runerr.Arg) }

// IsModel reports whether err is a missing or unreadable model (HTTP 404).
func IsModel(err error) bool { return runerr.IsKind(err, runerr.Model) }

// IsInfo reports whether err is an engine introspection failure.
func IsInfo(err error) bool { return runerr.IsKind(err, runerr.Info) }
