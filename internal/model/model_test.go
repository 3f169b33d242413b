package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campuswell/counselbook/internal/apperr"
)

func TestOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	tests := []struct {
		name           string
		a0, a1, b0, b1 int
		want           bool
	}{
		{"identical", 0, 60, 0, 60, true},
		{"contained", 0, 60, 15, 45, true},
		{"partial overlap", 0, 60, 30, 90, true},
		{"touching end-to-start", 0, 60, 60, 120, false},
		{"touching start-to-end", 60, 120, 0, 60, false},
		{"disjoint", 0, 60, 90, 150, false},
		{"one minute overlap", 0, 60, 59, 120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(at(tt.a0), at(tt.a1), at(tt.b0), at(tt.b1)))
		})
	}
}

func TestBookingStatusActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.True(t, BookingStatusRescheduled.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusNoShow.IsActive())
}

func TestBookingStatusTerminal(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow} {
		assert.True(t, s.IsTerminal(), string(s))
	}
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusRescheduled} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

func TestAvailabilityWindowValidate(t *testing.T) {
	valid := func() *AvailabilityWindow {
		return &AvailabilityWindow{
			CounsellorID:    1,
			Weekday:         1,
			StartMinute:     9 * 60,
			EndMinute:       17 * 60,
			DurationMinutes: 60,
			GapMinutes:      15,
			MaxSessions:     1,
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*AvailabilityWindow)
		field  string
	}{
		{"weekday too high", func(w *AvailabilityWindow) { w.Weekday = 7 }, "weekday"},
		{"negative weekday", func(w *AvailabilityWindow) { w.Weekday = -1 }, "weekday"},
		{"start after end", func(w *AvailabilityWindow) { w.StartMinute = 18 * 60 }, "start_minute"},
		{"start equals end", func(w *AvailabilityWindow) { w.StartMinute = w.EndMinute }, "start_minute"},
		{"end out of range", func(w *AvailabilityWindow) { w.EndMinute = 1440 }, "end_minute"},
		{"duration too short", func(w *AvailabilityWindow) { w.DurationMinutes = 10 }, "duration_minutes"},
		{"duration too long", func(w *AvailabilityWindow) { w.DurationMinutes = 181 }, "duration_minutes"},
		{"duration exceeds window", func(w *AvailabilityWindow) { w.EndMinute = w.StartMinute + 30; w.DurationMinutes = 60 }, "duration_minutes"},
		{"gap too long", func(w *AvailabilityWindow) { w.GapMinutes = 61 }, "gap_minutes"},
		{"zero max sessions", func(w *AvailabilityWindow) { w.MaxSessions = 0 }, "max_sessions"},
		{"too many sessions", func(w *AvailabilityWindow) { w.MaxSessions = 11 }, "max_sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid()
			tt.mutate(w)
			err := w.Validate()
			assert.ErrorIs(t, err, apperr.ErrValidation)

			var vErr *apperr.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestAvailabilityWindowCovers(t *testing.T) {
	w := &AvailabilityWindow{Weekday: 1, StartMinute: 9 * 60, EndMinute: 17 * 60, DurationMinutes: 60, MaxSessions: 2}

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.True(t, w.Covers(monday.Add(10*time.Hour), monday.Add(11*time.Hour), time.UTC))
	assert.True(t, w.Covers(monday.Add(9*time.Hour), monday.Add(10*time.Hour), time.UTC))
	assert.True(t, w.Covers(monday.Add(16*time.Hour), monday.Add(17*time.Hour), time.UTC))
	assert.False(t, w.Covers(monday.Add(8*time.Hour), monday.Add(9*time.Hour), time.UTC))
	assert.False(t, w.Covers(monday.Add(16*time.Hour+30*time.Minute), monday.Add(17*time.Hour+30*time.Minute), time.UTC))
	assert.False(t, w.Covers(tuesday.Add(10*time.Hour), tuesday.Add(11*time.Hour), time.UTC))
}

func TestAvailabilityWindowCoversNormalizesLocation(t *testing.T) {
	w := &AvailabilityWindow{Weekday: 1, StartMinute: 9 * 60, EndMinute: 17 * 60, DurationMinutes: 60, MaxSessions: 2}

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// 14:00+04:00 is 10:00 UTC, inside the window; evaluated in the
	// client's own offset it would appear to match the wrong minutes.
	offset := time.FixedZone("client", 4*3600)
	start := monday.Add(10 * time.Hour).In(offset)
	end := monday.Add(11 * time.Hour).In(offset)
	assert.True(t, w.Covers(start, end, time.UTC))

	// The same wall-clock instants evaluated against a service zone four
	// hours behind UTC land at 06:00, outside the window.
	behind := time.FixedZone("behind", -4*3600)
	assert.False(t, w.Covers(monday.Add(10*time.Hour), monday.Add(11*time.Hour), behind))
}

func TestAvailabilityWindowCoversRejectsMidnightSpan(t *testing.T) {
	w := &AvailabilityWindow{Weekday: 1, StartMinute: 0, EndMinute: 1439, DurationMinutes: 60, MaxSessions: 1}

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// Runs past midnight into Tuesday: never covered, even though the
	// end's minute-of-day (60) is numerically small again.
	assert.False(t, w.Covers(monday.Add(23*time.Hour), monday.AddDate(0, 0, 1).Add(time.Hour), time.UTC))
}

func TestScreeningSeverityAlertThreshold(t *testing.T) {
	assert.False(t, ScreeningSeverityMinimal.RequiresAdminAlert())
	assert.False(t, ScreeningSeverityMild.RequiresAdminAlert())
	assert.False(t, ScreeningSeverityModerate.RequiresAdminAlert())
	assert.True(t, ScreeningSeverityModeratelySevere.RequiresAdminAlert())
	assert.True(t, ScreeningSeveritySevere.RequiresAdminAlert())
}
