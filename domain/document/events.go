package document

import "time"

// Change event types published after a successful store write.
const (
	EventTypeUpserted = "DocumentUpserted"
	EventTypeDeleted  = "DocumentDeleted"
)

// ChangeEvent describes a write that reached the store.
type ChangeEvent struct {
	Type       string    `json:"type"`
	DocumentID string    `json:"documentId"`
	Created    bool      `json:"created,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewUpsertedEvent builds the event for an upserted document.
func NewUpsertedEvent(id string, created bool, at time.Time) ChangeEvent {
	return ChangeEvent{Type: EventTypeUpserted, DocumentID: id, Created: created, OccurredAt: at}
}

// NewDeletedEvent builds the event for a deleted document.
func NewDeletedEvent(id string, at time.Time) ChangeEvent {
	return ChangeEvent{Type: EventTypeDeleted, DocumentID: id, OccurredAt: at}
}
