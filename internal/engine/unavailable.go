package engine

import "context"

const notBundled = "MNN runtime not bundled (configure runner_bin)"

// Unavailable satisfies Engine but refuses every call. It is the default
// when no runner binary is configured, so the rest of the pipeline still
// validates, resolves and reports a failure outcome.
type Unavailable struct{}

func (Unavailable) Run(context.Context, Invocation) (string, error) {
	return "", ErrUnavailable(notBundled)
}

func (Unavailable) RunProfile(context.Context, Invocation) (string, error) {
	return "", ErrUnavailable(notBundled)
}

func (Unavailable) ModelInfo(context.Context, string) (string, error) {
	return "", ErrUnavailable(notBundled)
}
