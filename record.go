package stride

import "time"

// Record is a completed adaptation exchange persisted to local history.
type Record struct {
	ID            string // ULID, assigned at save time if empty
	CreatedAt     time.Time
	Note          string // the check-in note that prompted the adaptation
	RecoveryScore *float64
	ThreadID      *int64
	Narrative     string
	Plan          *Plan
	Accepted      bool
}
