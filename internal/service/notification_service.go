package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/model"
)

// BookingEvent is one accepted state transition, handed to the dispatcher
// after the mutation has committed.
type BookingEvent struct {
	Transition TransitionName
	Booking    *model.Booking
	Actor      model.Actor
	Reason     string
	OldStartAt time.Time // reschedule only
	OldEndAt   time.Time
}

// EventCreated marks a freshly created booking; it is not a lifecycle
// transition but notifies the counsellor the same way.
const EventCreated TransitionName = "create"

// Dispatcher consumes transition events and emits notifications.
// Implementations are fire-and-forget: they never return an error to the
// transition that produced the event.
type Dispatcher interface {
	BookingEvent(ctx context.Context, ev BookingEvent)
	ScreeningAlert(ctx context.Context, result model.ScreeningResult)
}

// Channel is one best-effort delivery mechanism (email, Telegram). A
// channel failure is logged and swallowed; the persisted notification row
// is the durable record.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n *model.Notification, recipient *model.User) error
}

// NotificationService persists notification rows and fans them out to the
// delivery channels. Persist-then-deliver, so a dead SMTP server never
// loses the in-app notice.
type NotificationService struct {
	store    NotificationStore
	users    UserDirectory
	channels []Channel
	logger   *zap.Logger
}

func NewNotificationService(store NotificationStore, users UserDirectory, channels []Channel, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:    store,
		users:    users,
		channels: channels,
		logger:   logger,
	}
}

// BookingEvent turns one transition into its notification fan-out. Every
// failure inside is logged, never propagated: a best-effort side channel
// must not block or reverse a committed booking mutation.
func (s *NotificationService) BookingEvent(ctx context.Context, ev BookingEvent) {
	b := ev.Booking

	switch ev.Transition {
	case EventCreated:
		s.emit(ctx, &model.Notification{
			RecipientID: b.CounsellorID,
			SenderID:    &b.StudentID,
			Type:        model.NotificationTypeBooking,
			Title:       "New booking request",
			Message:     fmt.Sprintf("A student requested a session on %s.", formatSlot(b.StartAt, b.EndAt)),
			Priority:    model.NotificationPriorityMedium,
		})

	case TransitionApprove:
		s.emit(ctx, &model.Notification{
			RecipientID: b.StudentID,
			SenderID:    &b.CounsellorID,
			Type:        model.NotificationTypeBooking,
			Title:       "Booking approved",
			Message:     fmt.Sprintf("Your session on %s was approved.", formatSlot(b.StartAt, b.EndAt)),
			Priority:    model.NotificationPriorityMedium,
		})

	case TransitionReject:
		s.emit(ctx, &model.Notification{
			RecipientID: b.StudentID,
			SenderID:    &b.CounsellorID,
			Type:        model.NotificationTypeCancellation,
			Title:       "Booking rejected",
			Message:     rejectMessage(b, ev.Reason),
			Priority:    model.NotificationPriorityHigh,
		})

	case TransitionCancel:
		s.emit(ctx, &model.Notification{
			RecipientID: b.CounsellorID,
			SenderID:    &b.StudentID,
			Type:        model.NotificationTypeCancellation,
			Title:       "Booking cancelled",
			Message:     fmt.Sprintf("The session on %s was cancelled.", formatSlot(b.StartAt, b.EndAt)),
			Priority:    model.NotificationPriorityMedium,
		})

	case TransitionReschedule:
		payload, err := json.Marshal(model.ReschedulePayload{
			OldStartAt: ev.OldStartAt,
			OldEndAt:   ev.OldEndAt,
			NewStartAt: b.StartAt,
			NewEndAt:   b.EndAt,
		})
		if err != nil {
			s.logger.Error("Failed to marshal reschedule payload", zap.Int64("booking_id", b.ID), zap.Error(err))
		}
		s.emit(ctx, &model.Notification{
			RecipientID: b.StudentID,
			SenderID:    &b.CounsellorID,
			Type:        model.NotificationTypeReschedule,
			Title:       "Session rescheduled",
			Message: fmt.Sprintf("Your session moved from %s to %s.",
				formatSlot(ev.OldStartAt, ev.OldEndAt), formatSlot(b.StartAt, b.EndAt)),
			Priority: model.NotificationPriorityHigh,
			Payload:  payload,
		})

	case TransitionComplete:
		s.emit(ctx, &model.Notification{
			RecipientID: b.StudentID,
			SenderID:    &b.CounsellorID,
			Type:        model.NotificationTypeSessionReminder,
			Title:       "Session completed",
			Message:     fmt.Sprintf("Your session on %s was marked completed.", formatSlot(b.StartAt, b.EndAt)),
			Priority:    model.NotificationPriorityLow,
		})

	case TransitionNoShow:
		s.emit(ctx, &model.Notification{
			RecipientID: b.StudentID,
			SenderID:    &b.CounsellorID,
			Type:        model.NotificationTypeSystem,
			Title:       "Missed session",
			Message:     fmt.Sprintf("You were marked absent for the session on %s.", formatSlot(b.StartAt, b.EndAt)),
			Priority:    model.NotificationPriorityMedium,
		})
		s.fanOutToAdmins(ctx, &model.Notification{
			SenderID: &b.CounsellorID,
			Type:     model.NotificationTypeSystem,
			Title:    "Student no-show",
			Message:  fmt.Sprintf("Student %d missed a session on %s.", b.StudentID, formatSlot(b.StartAt, b.EndAt)),
			Priority: model.NotificationPriorityHigh,
		})

	default:
		s.logger.Warn("Unknown booking event", zap.String("transition", string(ev.Transition)))
	}
}

// ScreeningAlert fans an urgent alert out to every active administrator
// when a completed screening is moderately severe or worse.
func (s *NotificationService) ScreeningAlert(ctx context.Context, result model.ScreeningResult) {
	if !result.Severity.RequiresAdminAlert() {
		return
	}

	priority := model.NotificationPriorityHigh
	if result.Severity == model.ScreeningSeveritySevere {
		priority = model.NotificationPriorityUrgent
	}

	s.fanOutToAdmins(ctx, &model.Notification{
		SenderID: &result.StudentID,
		Type:     model.NotificationTypeMentalHealthAlert,
		Title:    "Screening alert",
		Message:  fmt.Sprintf("Student %d scored %s on a mental health screening.", result.StudentID, result.Severity),
		Priority: priority,
	})
}

// SweepExpired removes notifications past their expiry instant.
func (s *NotificationService) SweepExpired(ctx context.Context) {
	removed, err := s.store.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("Failed to sweep expired notifications", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("Swept expired notifications", zap.Int64("removed", removed))
	}
}

// ListForRecipient returns a recipient's unexpired notifications.
func (s *NotificationService) ListForRecipient(ctx context.Context, recipientID int64) ([]*model.Notification, error) {
	return s.store.ListByRecipient(ctx, recipientID)
}

// MarkRead acknowledges one notification for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID int64) error {
	return s.store.MarkRead(ctx, id, recipientID)
}

// Routine notices expire and get swept; high and urgent alerts are kept
// until an admin deletes the recipient.
const notificationTTL = 30 * 24 * time.Hour

// emit persists one notification and pushes it through the delivery
// channels. All failures are logged and swallowed.
func (s *NotificationService) emit(ctx context.Context, n *model.Notification) {
	n.DedupeKey = uuid.New()
	if n.ExpiresAt == nil && (n.Priority == model.NotificationPriorityLow || n.Priority == model.NotificationPriorityMedium) {
		expiry := time.Now().Add(notificationTTL)
		n.ExpiresAt = &expiry
	}

	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error("Failed to persist notification",
			zap.Int64("recipient_id", n.RecipientID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		// fall through: channels may still reach the recipient
	}

	recipient, err := s.users.GetByID(ctx, n.RecipientID)
	if err != nil || recipient == nil {
		s.logger.Error("Failed to resolve notification recipient",
			zap.Int64("recipient_id", n.RecipientID),
			zap.Error(err))
		return
	}

	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, n, recipient); err != nil {
			s.logger.Error("Notification delivery failed",
				zap.String("channel", ch.Name()),
				zap.Int64("recipient_id", n.RecipientID),
				zap.Error(err))
		}
	}
}

// fanOutToAdmins emits one copy of the notification per active admin.
// Directory failure here is the one case that may lose an alert, so it is
// logged at Error with the full context.
func (s *NotificationService) fanOutToAdmins(ctx context.Context, template *model.Notification) {
	admins, err := s.users.ListActiveAdmins(ctx)
	if err != nil {
		s.logger.Error("Failed to list admins for alert fan-out",
			zap.String("title", template.Title),
			zap.Error(err))
		return
	}

	for _, admin := range admins {
		n := *template
		n.RecipientID = admin.ID
		s.emit(ctx, &n)
	}
}

func formatSlot(start, end time.Time) string {
	return fmt.Sprintf("%s from %s to %s",
		start.Format("Mon, 02 Jan 2006"),
		start.Format("15:04"),
		end.Format("15:04"))
}

func rejectMessage(b *model.Booking, reason string) string {
	msg := fmt.Sprintf("Your booking request for %s was declined.", formatSlot(b.StartAt, b.EndAt))
	if reason != "" {
		msg += " Reason: " + reason
	}
	return msg
}
