// Package manager wires probing, backend resolution, run normalization,
// kernel cache selection and dispatch into the runner's public operations.
// It is structured into small files by concern:
//
//   - manager.go: Manager type, construction, simple getters.
//   - config.go: Config and defaults; New applies them.
//   - errors.go: re-exported error kinds for callers of this package.
//   - capabilities.go: Capabilities and its wire view.
//   - info.go: ModelInfo.
//   - run.go: Submit/Run and the background run pipeline.
//   - status_report.go: Status.
//   - sanity.go: SanityCheck and Preflight.
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors for runs and probes.
//
// Native engines:
//
//   - The default engine is engine.Unavailable; runs are still validated and
//     resolved and report a failure outcome.
//   - Setting Config.Engine (e.g. engine.NewExec(runnerBin)) enables real
//     execution.
//
// External packages should treat this package as the orchestration layer and
// use public methods only.
package manager
