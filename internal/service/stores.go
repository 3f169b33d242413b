package service

import (
	"context"
	"time"

	"github.com/campuswell/counselbook/internal/model"
)

// Storage interfaces consumed by the services. The pgx repositories in
// internal/repository are the production implementations; tests substitute
// in-memory fakes.

type BookingStore interface {
	CreateSerialized(ctx context.Context, booking *model.Booking, sessionLimit int) error
	RescheduleSerialized(ctx context.Context, booking *model.Booking, newStart, newEnd time.Time, reason string, sessionLimit int, from []model.BookingStatus) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.Booking, error)
	ListActiveBetween(ctx context.Context, counsellorID int64, from, to time.Time) ([]*model.Booking, error)
	UpdateDecision(ctx context.Context, id int64, status model.BookingStatus, counsellorNotes, reason string, from []model.BookingStatus) error
	Complete(ctx context.Context, id int64, counsellorNotes string, actualStart, actualEnd *time.Time, from []model.BookingStatus) error
	DeleteInactiveByUser(ctx context.Context, userID int64) (int64, error)
}

type AvailabilityStore interface {
	ReplaceForCounsellor(ctx context.Context, counsellorID int64, windows []*model.AvailabilityWindow) error
	ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.AvailabilityWindow, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// UserDirectory resolves actor ids to directory records. The engine reads
// it only to compose notification text and to enumerate alert recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListActiveAdmins(ctx context.Context) ([]*model.User, error)
}
