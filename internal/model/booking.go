package model

import "time"

type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"     // Waiting for counsellor approval
	BookingStatusConfirmed   BookingStatus = "confirmed"   // Approved by the counsellor
	BookingStatusRescheduled BookingStatus = "rescheduled" // Confirmed, but the slot was moved
	BookingStatusCompleted   BookingStatus = "completed"   // Session took place
	BookingStatusCancelled   BookingStatus = "cancelled"   // Cancelled or rejected
	BookingStatusNoShow      BookingStatus = "no_show"     // Student did not attend
)

// IsActive reports whether the booking still occupies the counsellor's
// conflict-detection space. Rescheduled bookings stay active: the slot
// moved, the session did not go away.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed || s == BookingStatusRescheduled
}

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusNoShow
}

type Booking struct {
	ID              int64         `json:"id"`
	StudentID       int64         `json:"student_id"`
	CounsellorID    int64         `json:"counsellor_id"`
	StartAt         time.Time     `json:"start_at"`
	EndAt           time.Time     `json:"end_at"`
	Status          BookingStatus `json:"status"`
	StudentNotes    string        `json:"student_notes,omitempty"`
	CounsellorNotes string        `json:"counsellor_notes,omitempty"`
	Reason          string        `json:"reason,omitempty"` // cancellation/reschedule/no-show reason
	ActualStartAt   *time.Time    `json:"actual_start_at,omitempty"`
	ActualEndAt     *time.Time    `json:"actual_end_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Hydrated for notification text, not stored on the booking row
	Student    *User `json:"student,omitempty"`
	Counsellor *User `json:"counsellor,omitempty"`
}
