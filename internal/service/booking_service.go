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

// TransitionInput carries the optional per-transition payload.
type TransitionInput struct {
	Notes         string     // counsellor notes (approve, complete)
	Reason        string     // reject/cancel/reschedule/no-show reason
	NewStartAt    time.Time  // reschedule target slot
	NewEndAt      time.Time  //
	ActualStartAt *time.Time // complete: recorded session times
	ActualEndAt   *time.Time //
}

// BookingService owns the booking ledger and its state machine.
type BookingService struct {
	bookings     BookingStore
	availability AvailabilityStore
	dispatcher   Dispatcher
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(bookings BookingStore, availability AvailabilityStore, dispatcher Dispatcher, loc *time.Location, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings:     bookings,
		availability: availability,
		dispatcher:   dispatcher,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// Create inserts a new pending booking for the student. The conflict check
// and the insert commit as one serialized unit per counsellor; of two
// racing requests on overlapping slots exactly one succeeds.
func (s *BookingService) Create(ctx context.Context, actor model.Actor, counsellorID int64, startAt, endAt time.Time, notes string) (*model.Booking, error) {
	if actor.Role != model.RoleStudent {
		return nil, apperr.NotFoundf("counsellor")
	}
	if !startAt.Before(endAt) {
		return nil, apperr.Validationf("start_at", "must be before end_at")
	}
	if !startAt.After(s.now()) {
		return nil, apperr.ErrPastTime
	}

	windows, err := s.availability.ListByCounsellor(ctx, counsellorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	limit := schedule.SessionLimit(windows, startAt, endAt, s.loc)

	booking := &model.Booking{
		StudentID:    actor.ID,
		CounsellorID: counsellorID,
		StartAt:      startAt,
		EndAt:        endAt,
		Status:       model.BookingStatusPending,
		StudentNotes: notes,
	}

	if err := s.bookings.CreateSerialized(ctx, booking, limit); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", actor.ID),
		zap.Int64("counsellor_id", counsellorID),
		zap.Time("start_at", startAt),
	)

	s.dispatcher.BookingEvent(ctx, BookingEvent{
		Transition: EventCreated,
		Booking:    booking,
		Actor:      actor,
	})

	return booking, nil
}

// Get returns the booking when the actor may see it. Non-owners get
// not-found rather than forbidden, so the engine never confirms a
// booking's existence to them.
func (s *BookingService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil || !s.visibleTo(actor, booking) {
		return nil, apperr.NotFoundf("booking")
	}
	return booking, nil
}

// List returns bookings for the given user. Students and counsellors are
// pinned to their own ledger regardless of the requested id; admins may
// inspect anyone's.
func (s *BookingService) List(ctx context.Context, actor model.Actor, userID int64) ([]*model.Booking, error) {
	switch actor.Role {
	case model.RoleStudent:
		return s.bookings.ListByStudent(ctx, actor.ID)
	case model.RoleCounsellor:
		return s.bookings.ListByCounsellor(ctx, actor.ID)
	case model.RoleAdmin:
		asStudent, err := s.bookings.ListByStudent(ctx, userID)
		if err != nil {
			return nil, err
		}
		asCounsellor, err := s.bookings.ListByCounsellor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return append(asStudent, asCounsellor...), nil
	default:
		return nil, apperr.NotFoundf("user")
	}
}

// Transition applies one state-machine edge. Guard order: existence, then
// role and ownership (failures surface as not-found), then the from-state
// precondition (failure surfaces as an illegal transition). Admins bypass
// ownership, never preconditions.
func (s *BookingService) Transition(ctx context.Context, actor model.Actor, bookingID int64, name TransitionName, input TransitionInput) (*model.Booking, error) {
	tr, ok := lookupTransition(name)
	if !ok {
		return nil, apperr.Validationf("transition", "unknown transition %q", name)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking")
	}
	if !tr.allowsRole(actor.Role) {
		return nil, apperr.NotFoundf("booking")
	}
	if !actor.IsAdmin() && !s.ownsForTransition(actor, booking) {
		return nil, apperr.NotFoundf("booking")
	}
	if !tr.allowsFrom(booking.Status) {
		return nil, apperr.IllegalTransitionf(string(name), string(booking.Status))
	}

	event := BookingEvent{
		Transition: name,
		Booking:    booking,
		Actor:      actor,
		Reason:     input.Reason,
	}

	switch name {
	case TransitionApprove:
		err = s.bookings.UpdateDecision(ctx, booking.ID, tr.To, input.Notes, "", tr.From)
		booking.CounsellorNotes = orKeep(input.Notes, booking.CounsellorNotes)

	case TransitionReject, TransitionCancel, TransitionNoShow:
		err = s.bookings.UpdateDecision(ctx, booking.ID, tr.To, input.Notes, input.Reason, tr.From)
		booking.Reason = orKeep(input.Reason, booking.Reason)
		booking.CounsellorNotes = orKeep(input.Notes, booking.CounsellorNotes)

	case TransitionReschedule:
		if !input.NewStartAt.Before(input.NewEndAt) {
			return nil, apperr.Validationf("new_start_at", "must be before new_end_at")
		}
		event.OldStartAt, event.OldEndAt = booking.StartAt, booking.EndAt

		var windows []*model.AvailabilityWindow
		windows, err = s.availability.ListByCounsellor(ctx, booking.CounsellorID)
		if err != nil {
			return nil, fmt.Errorf("list availability: %w", err)
		}
		limit := schedule.SessionLimit(windows, input.NewStartAt, input.NewEndAt, s.loc)

		err = s.bookings.RescheduleSerialized(ctx, booking, input.NewStartAt, input.NewEndAt, input.Reason, limit, tr.From)
		if err == nil {
			booking.StartAt, booking.EndAt = input.NewStartAt, input.NewEndAt
			booking.Reason = orKeep(input.Reason, booking.Reason)
		}

	case TransitionComplete:
		if input.ActualStartAt != nil && input.ActualEndAt != nil && !input.ActualStartAt.Before(*input.ActualEndAt) {
			return nil, apperr.Validationf("actual_start_at", "must be before actual_end_at")
		}
		err = s.bookings.Complete(ctx, booking.ID, input.Notes, input.ActualStartAt, input.ActualEndAt, tr.From)
		booking.CounsellorNotes = orKeep(input.Notes, booking.CounsellorNotes)
		booking.ActualStartAt = input.ActualStartAt
		booking.ActualEndAt = input.ActualEndAt
	}

	if err != nil {
		return nil, err
	}

	booking.Status = tr.To
	booking.UpdatedAt = s.now()

	s.logger.Info("Booking transition applied",
		zap.Int64("booking_id", booking.ID),
		zap.String("transition", string(name)),
		zap.String("status", string(booking.Status)),
		zap.Int64("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
	)

	s.dispatcher.BookingEvent(ctx, event)

	return booking, nil
}

// PurgeUserBookings removes a deleted user's non-active bookings as part
// of the administrative cascade.
func (s *BookingService) PurgeUserBookings(ctx context.Context, actor model.Actor, userID int64) (int64, error) {
	if !actor.IsAdmin() {
		return 0, apperr.NotFoundf("user")
	}
	removed, err := s.bookings.DeleteInactiveByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Purged user bookings",
		zap.Int64("user_id", userID),
		zap.Int64("removed", removed),
	)
	return removed, nil
}

func (s *BookingService) visibleTo(actor model.Actor, b *model.Booking) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleStudent:
		return b.StudentID == actor.ID
	case model.RoleCounsellor:
		return b.CounsellorID == actor.ID
	}
	return false
}

// ownsForTransition checks the actor against the side of the booking their
// role acts on: a student must be the booking's student, a counsellor the
// assigned counsellor.
func (s *BookingService) ownsForTransition(actor model.Actor, b *model.Booking) bool {
	switch actor.Role {
	case model.RoleStudent:
		return b.StudentID == actor.ID
	case model.RoleCounsellor:
		return b.CounsellorID == actor.ID
	}
	return false
}

func orKeep(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
