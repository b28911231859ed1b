package core

import (
	"time"

	"github.com/google/uuid"
)

// PanicEvent is an append-only record of a "I need help" trigger.
// Events are stored in a log directory shared across all tenants; the
// filename embeds a sortable timestamp so lexicographic order matches
// chronological order.
type PanicEvent struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"user_uuid"`
	Timestamp        time.Time `json:"timestamp"`
	MoodAtPanic      *int      `json:"mood_at_panic"`
	HighLevelAtPanic *int      `json:"high_level_at_panic"`
	NotifiedContacts []string  `json:"notified_contacts"`
}

// NewPanicEvent creates a panic event for a tenant with a fresh id and the
// current UTC timestamp.
func NewPanicEvent(tenantID string) PanicEvent {
	return PanicEvent{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		Timestamp:        time.Now().UTC(),
		NotifiedContacts: []string{},
	}
}
