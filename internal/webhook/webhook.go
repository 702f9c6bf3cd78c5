// Package webhook delivers phase lifecycle notifications to an external
// consumer.
package webhook

import "context"

// Notifier accepts phase lifecycle notifications. Implementations are best
// effort: delivery failures are logged, never surfaced to the answering
// caller.
type Notifier interface {
	// NotifyPhaseCompleted fires when the last mandatory question of a phase
	// receives its main answer.
	NotifyPhaseCompleted(scopeID string, phase string, percentage int)
}

// Sender performs one delivery attempt to the configured endpoint.
type Sender interface {
	Deliver(ctx context.Context, payload PhasePayload) error
}

// PhasePayload is the structure sent to the webhook URL.
type PhasePayload struct {
	Event      string `json:"event"` // "phase.completed"
	ScopeID    string `json:"scope_id"`
	Phase      string `json:"phase"`
	Percentage int    `json:"percentage"`
}
