package model

import "time"

// Slot is a concrete bookable interval derived from an availability
// window on a calendar date. Slots are never persisted; the booking
// ledger is the only durable record of occupied time.
type Slot struct {
	CounsellorID int64     `json:"counsellor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	MaxSessions  int       `json:"max_sessions"`
}

// Overlaps reports whether two half-open intervals [a0,a1) and [b0,b1)
// intersect. Touching endpoints do not overlap, so back-to-back sessions
// never conflict.
func Overlaps(a0, a1, b0, b1 time.Time) bool {
	return a0.Before(b1) && b0.Before(a1)
}
