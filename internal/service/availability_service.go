package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
	"github.com/campuswell/counselbook/internal/schedule"
)

// AvailabilityService manages counsellor schedules and derives the
// advisory free-slot listing. The listing is never authoritative: the
// serialized conflict check at booking creation is the sole source of
// truth for occupancy.
type AvailabilityService struct {
	availability AvailabilityStore
	bookings     BookingStore
	logger       *zap.Logger
	location     *time.Location
	now          func() time.Time
}

func NewAvailabilityService(availability AvailabilityStore, bookings BookingStore, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{
		availability: availability,
		bookings:     bookings,
		logger:       logger,
		location:     loc,
		now:          time.Now,
	}
}

// ReplaceWindows swaps a counsellor's whole schedule. Only the counsellor
// themselves or an admin may do this; the swap is wholesale, never a merge.
func (s *AvailabilityService) ReplaceWindows(ctx context.Context, actor model.Actor, counsellorID int64, windows []*model.AvailabilityWindow) error {
	if actor.Role == model.RoleCounsellor && actor.ID != counsellorID {
		return apperr.NotFoundf("counsellor")
	}
	if actor.Role == model.RoleStudent {
		return apperr.NotFoundf("counsellor")
	}

	for _, w := range windows {
		if w.MaxSessions == 0 {
			w.MaxSessions = 1
		}
		if err := w.Validate(); err != nil {
			return err
		}
	}

	if err := s.availability.ReplaceForCounsellor(ctx, counsellorID, windows); err != nil {
		return fmt.Errorf("replace windows: %w", err)
	}

	s.logger.Info("Availability replaced",
		zap.Int64("counsellor_id", counsellorID),
		zap.Int("windows", len(windows)),
	)
	return nil
}

// ListWindows returns the counsellor's current schedule.
func (s *AvailabilityService) ListWindows(ctx context.Context, counsellorID int64) ([]*model.AvailabilityWindow, error) {
	return s.availability.ListByCounsellor(ctx, counsellorID)
}

// AvailableSlots generates the date's candidate slots and filters them
// through the conflict space: a slot survives while its overlapping active
// booking count stays below the window's session limit. Already-started
// slots are dropped, matching the must-be-future rule bookings enforce.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, counsellorID int64, date time.Time) ([]model.Slot, error) {
	windows, err := s.availability.ListByCounsellor(ctx, counsellorID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}

	candidates := schedule.Generate(windows, date, s.location)
	if len(candidates) == 0 {
		return nil, nil
	}

	dayStart := candidates[0].StartAt
	dayEnd := candidates[len(candidates)-1].EndAt
	active, err := s.bookings.ListActiveBetween(ctx, counsellorID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	now := s.now()
	free := make([]model.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if !slot.StartAt.After(now) {
			continue
		}
		count := 0
		for _, b := range active {
			if model.Overlaps(slot.StartAt, slot.EndAt, b.StartAt, b.EndAt) {
				count++
			}
		}
		if count < slot.MaxSessions {
			free = append(free, slot)
		}
	}

	return free, nil
}
