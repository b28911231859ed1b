// Package core defines the domain model and the service that orchestrates
// persistence, notifications and ledger snapshots.
package core

import (
	"time"

	"github.com/google/uuid"
)

// Mood and intoxication bounds enforced on every new check-in.
const (
	MoodMin      = -5
	MoodMax      = 5
	HighLevelMin = 0
	HighLevelMax = 10
)

// Checkin is a single mood check-in submitted by a tenant.
// It is immutable once written: there is no update or delete operation.
// The JSON field names are the on-disk contract and must not change.
type Checkin struct {
	ID           string            `json:"id"`
	TenantID     string            `json:"user_uuid"`
	Timestamp    time.Time         `json:"timestamp"`
	Mood         int               `json:"mood"`
	HighLevel    int               `json:"high_level"`
	SafetyAnswer *string           `json:"safety_answer"`
	FeelsSafe    bool              `json:"feels_safe"`
	Notes        *string           `json:"notes"`
	Drugs        []DrugEntry       `json:"drugs"`
	AutoNotify   AutoNotifications `json:"auto_notifications"`
	StatusTags   []string          `json:"status_tags,omitempty"`
}

// NewCheckin creates an empty check-in for a tenant with a fresh id and
// the current UTC timestamp.
func NewCheckin(tenantID string) Checkin {
	return Checkin{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Timestamp: time.Now().UTC(),
		FeelsSafe: true,
		Drugs:     []DrugEntry{},
	}
}

// ClampMood forces a mood value into [MoodMin, MoodMax].
func ClampMood(v int) int {
	return clamp(v, MoodMin, MoodMax)
}

// ClampHighLevel forces an intoxication level into [HighLevelMin, HighLevelMax].
func ClampHighLevel(v int) int {
	return clamp(v, HighLevelMin, HighLevelMax)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DrugEntry is a substance entry nested inside a check-in.
// It has no identity of its own.
type DrugEntry struct {
	Substance string     `json:"substance"`
	Dose      string     `json:"dose"`
	Route     *string    `json:"route"`
	StartTime *time.Time `json:"start_time"`
	Notes     *string    `json:"notes"`
}

// AutoNotifications records the outcome of automatic notifications for a
// check-in. The store treats it as opaque payload; it is populated by the
// caller from the dispatcher's result before the record is persisted.
//
// The two trigger flags are independent: a single submission can fire both
// the low-mood threshold and the panic alarm. Contact lists are unioned.
type AutoNotifications struct {
	MoodThresholdTriggered bool     `json:"mood_threshold_triggered"`
	PanicTriggered         bool     `json:"panic_triggered"`
	NotifiedContacts       []string `json:"notified_contacts"`
}
