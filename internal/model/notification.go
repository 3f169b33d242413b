package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBooking           NotificationType = "booking"
	NotificationTypeCancellation      NotificationType = "cancellation"
	NotificationTypeReschedule        NotificationType = "reschedule"
	NotificationTypeSessionReminder   NotificationType = "session_reminder"
	NotificationTypeSystem            NotificationType = "system"
	NotificationTypeMentalHealthAlert NotificationType = "mental_health_alert"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// Notification is one delivered message for one recipient. A single
// booking transition can fan out into several rows (student notice plus
// per-admin alerts).
type Notification struct {
	ID          int64                `json:"id"`
	RecipientID int64                `json:"recipient_id"`
	SenderID    *int64               `json:"sender_id,omitempty"`
	Type        NotificationType     `json:"type"`
	Title       string               `json:"title"`
	Message     string               `json:"message"`
	Priority    NotificationPriority `json:"priority"`
	Payload     json.RawMessage      `json:"payload,omitempty"` // jsonb, e.g. old/new slot on reschedule
	IsRead      bool                 `json:"is_read"`
	ExpiresAt   *time.Time           `json:"expires_at,omitempty"`
	DedupeKey   uuid.UUID            `json:"dedupe_key"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ReschedulePayload is the structured payload attached to reschedule
// notifications so clients can render both slots.
type ReschedulePayload struct {
	OldStartAt time.Time `json:"old_start_at"`
	OldEndAt   time.Time `json:"old_end_at"`
	NewStartAt time.Time `json:"new_start_at"`
	NewEndAt   time.Time `json:"new_end_at"`
}
