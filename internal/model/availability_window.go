package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuswell/counselbook/internal/apperr"
)

// AvailabilityWindow is one recurring weekly interval during which a
// counsellor accepts bookings. A counsellor's schedule is the full set of
// their windows; schedule updates replace the set wholesale, never merge.
type AvailabilityWindow struct {
	ID              int64     `json:"id"`
	CounsellorID    int64     `json:"counsellor_id"`
	Weekday         int       `json:"weekday"`          // 0 = Sunday, 6 = Saturday
	StartMinute     int       `json:"start_minute"`     // minute of day, 0-1439
	EndMinute       int       `json:"end_minute"`       // minute of day, start < end
	DurationMinutes int       `json:"duration_minutes"` // session length
	GapMinutes      int       `json:"gap_minutes"`      // pause between sessions
	MaxSessions     int       `json:"max_sessions"`     // concurrent sessions per slot
	ScheduleVersion uuid.UUID `json:"schedule_version"` // groups windows from one replace
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the window's field ranges and returns a field-carrying
// validation error for the first violation.
func (w *AvailabilityWindow) Validate() error {
	switch {
	case w.Weekday < 0 || w.Weekday > 6:
		return apperr.Validationf("weekday", "must be between 0 and 6")
	case w.StartMinute < 0 || w.StartMinute > 1439:
		return apperr.Validationf("start_minute", "must be between 0 and 1439")
	case w.EndMinute < 0 || w.EndMinute > 1439:
		return apperr.Validationf("end_minute", "must be between 0 and 1439")
	case w.StartMinute >= w.EndMinute:
		return apperr.Validationf("start_minute", "must be before end_minute")
	case w.DurationMinutes < 15 || w.DurationMinutes > 180:
		return apperr.Validationf("duration_minutes", "must be between 15 and 180")
	case w.DurationMinutes > w.EndMinute-w.StartMinute:
		return apperr.Validationf("duration_minutes", "must fit inside the window")
	case w.GapMinutes < 0 || w.GapMinutes > 60:
		return apperr.Validationf("gap_minutes", "must be between 0 and 60")
	case w.MaxSessions < 1 || w.MaxSessions > 10:
		return apperr.Validationf("max_sessions", "must be between 1 and 10")
	}
	return nil
}

// Covers reports whether the given absolute interval falls inside this
// window on its weekday, evaluated in the service location so clients
// submitting other UTC offsets still match the right window. Used to pick
// the session limit for a candidate booking interval.
func (w *AvailabilityWindow) Covers(start, end time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	s := start.In(loc)
	if int(s.Weekday()) != w.Weekday {
		return false
	}
	startMin := s.Hour()*60 + s.Minute()
	endMin := startMin + int(end.Sub(start)/time.Minute)
	// An interval running past midnight can never sit inside a single-day
	// window; end exactly at midnight counts as minute 1440.
	if endMin > 1440 {
		return false
	}
	return startMin >= w.StartMinute && endMin <= w.EndMinute
}
