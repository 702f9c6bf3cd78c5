package event

import "context"

// Filter selects events for a read or delete. OwnerID and ScopeID are always
// required; QuestionID narrows to a single question's history.
type Filter struct {
	OwnerID    string
	ScopeID    string
	QuestionID *uint
}

// Store is the append-only event log. Reads return events ordered by
// (created_at asc, id asc). Deletes exist only to serve the resolver's
// edit-replace and the scope purge; nothing else removes events.
type Store interface {
	// Append persists one event and fills in its ID and PublicID.
	Append(ctx context.Context, ev *Event) error

	// AppendMany persists a batch inside one transaction. The whole batch is
	// validated before any element is written; a batch never applies
	// partially.
	AppendMany(ctx context.Context, evs []*Event) error

	// FindWhere returns matching events ordered by created_at asc, id asc.
	FindWhere(ctx context.Context, filter Filter) ([]Event, error)

	// DeleteWhere removes events for exactly one (owner, scope, question)
	// tuple and returns the number removed. The question is required; broader
	// deletes go through PurgeScope.
	DeleteWhere(ctx context.Context, filter Filter) (int64, error)

	// ReplaceForQuestion atomically deletes every event for the filter's
	// (owner, scope, question) tuple and appends the replacement in the same
	// transaction. Readers never observe the deleted-but-not-replaced state.
	ReplaceForQuestion(ctx context.Context, filter Filter, replacement *Event) error

	// PurgeScope removes every event for an owner+scope pair and returns the
	// number removed. Irreversible.
	PurgeScope(ctx context.Context, ownerID, scopeID string) (int64, error)
}
