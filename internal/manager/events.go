package manager

// Event represents a run lifecycle event.
// Minimal and stable: name + run ID and optional fields via key/values.
type Event struct {
	Name   string
	RunID  string
	Fields map[string]any
}

// Event names emitted by the manager.
const (
	EventRunAccepted        = "run_accepted"
	EventRunRejected        = "run_rejected"
	EventBackendSubstituted = "backend_substituted"
	EventCacheDecided       = "cache_decided"
	EventRunFinished        = "run_finished"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
