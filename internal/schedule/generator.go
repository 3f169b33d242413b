// Package schedule derives concrete bookable slots from recurring weekly
// availability windows. Generation is pure: the same windows and date
// always produce the same sequence.
package schedule

import (
	"sort"
	"time"

	"github.com/campuswell/counselbook/internal/model"
)

// Generate walks every window matching the date's weekday and emits the
// ordered sequence of candidate slots for that calendar date.
//
// Within one window the cursor starts at the window's start minute and
// advances by duration+gap; a slot is emitted only when its full duration
// fits before the window end. Output from multiple same-day windows is
// concatenated in definition order, then stable-sorted by start instant.
//
// No windows for the weekday is not an error: the result is empty.
// Past-dated slots are still emitted; the must-be-future rule is enforced
// at booking creation, not here.
func Generate(windows []*model.AvailabilityWindow, date time.Time, loc *time.Location) []model.Slot {
	if loc == nil {
		loc = time.Local
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	weekday := int(midnight.Weekday())

	var slots []model.Slot
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		duration := time.Duration(w.DurationMinutes) * time.Minute
		step := duration + time.Duration(w.GapMinutes)*time.Minute
		windowEnd := midnight.Add(time.Duration(w.EndMinute) * time.Minute)

		for cursor := midnight.Add(time.Duration(w.StartMinute) * time.Minute); !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(step) {
			slots = append(slots, model.Slot{
				CounsellorID: w.CounsellorID,
				StartAt:      cursor,
				EndAt:        cursor.Add(duration),
				MaxSessions:  w.MaxSessions,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartAt.Before(slots[j].StartAt)
	})

	return slots
}

// SessionLimit returns the session limit of the window covering the given
// interval in the service location, or 1 when no window covers it.
func SessionLimit(windows []*model.AvailabilityWindow, start, end time.Time, loc *time.Location) int {
	for _, w := range windows {
		if w.Covers(start, end, loc) {
			return w.MaxSessions
		}
	}
	return 1
}
