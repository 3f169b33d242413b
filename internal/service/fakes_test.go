package service

import (
	"context"
	"sync"
	"time"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
)

// fakeBookingStore is an in-memory BookingStore. A single mutex stands in
// for the per-counsellor advisory lock: the conflict count and the insert
// run as one serialized unit, so racing creates behave like production.
type fakeBookingStore struct {
	mu       sync.Mutex
	seq      int64
	bookings map[int64]*model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[int64]*model.Booking)}
}

func (f *fakeBookingStore) countOverlappingLocked(counsellorID int64, start, end time.Time, excludeID int64) int {
	count := 0
	for _, b := range f.bookings {
		if b.CounsellorID != counsellorID || b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if model.Overlaps(start, end, b.StartAt, b.EndAt) {
			count++
		}
	}
	return count
}

func (f *fakeBookingStore) CreateSerialized(ctx context.Context, booking *model.Booking, sessionLimit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countOverlappingLocked(booking.CounsellorID, booking.StartAt, booking.EndAt, 0) >= sessionLimit {
		return apperr.ErrConflict
	}

	f.seq++
	booking.ID = f.seq
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingStore) RescheduleSerialized(ctx context.Context, booking *model.Booking, newStart, newEnd time.Time, reason string, sessionLimit int, from []model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countOverlappingLocked(booking.CounsellorID, newStart, newEnd, booking.ID) >= sessionLimit {
		return apperr.ErrConflict
	}

	stored, ok := f.bookings[booking.ID]
	if !ok || !statusIn(stored.Status, from) {
		return apperr.ErrIllegalTransition
	}
	stored.StartAt, stored.EndAt = newStart, newEnd
	stored.Status = model.BookingStatusRescheduled
	if reason != "" {
		stored.Reason = reason
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeBookingStore) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return f.list(func(b *model.Booking) bool { return b.StudentID == studentID }), nil
}

func (f *fakeBookingStore) ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.Booking, error) {
	return f.list(func(b *model.Booking) bool { return b.CounsellorID == counsellorID }), nil
}

func (f *fakeBookingStore) ListActiveBetween(ctx context.Context, counsellorID int64, from, to time.Time) ([]*model.Booking, error) {
	return f.list(func(b *model.Booking) bool {
		return b.CounsellorID == counsellorID && b.Status.IsActive() && model.Overlaps(from, to, b.StartAt, b.EndAt)
	}), nil
}

func (f *fakeBookingStore) list(match func(*model.Booking) bool) []*model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if match(b) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out
}

// UpdateDecision mirrors the SQL status guard: the write only lands while
// the booking is still in one of the expected from-states.
func (f *fakeBookingStore) UpdateDecision(ctx context.Context, id int64, status model.BookingStatus, counsellorNotes, reason string, from []model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[id]
	if !ok || !statusIn(stored.Status, from) {
		return apperr.ErrIllegalTransition
	}
	stored.Status = status
	if counsellorNotes != "" {
		stored.CounsellorNotes = counsellorNotes
	}
	if reason != "" {
		stored.Reason = reason
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingStore) Complete(ctx context.Context, id int64, counsellorNotes string, actualStart, actualEnd *time.Time, from []model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[id]
	if !ok || !statusIn(stored.Status, from) {
		return apperr.ErrIllegalTransition
	}
	stored.Status = model.BookingStatusCompleted
	if counsellorNotes != "" {
		stored.CounsellorNotes = counsellorNotes
	}
	stored.ActualStartAt = actualStart
	stored.ActualEndAt = actualEnd
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingStore) DeleteInactiveByUser(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for id, b := range f.bookings {
		if (b.StudentID == userID || b.CounsellorID == userID) && !b.Status.IsActive() {
			delete(f.bookings, id)
			removed++
		}
	}
	return removed, nil
}

func statusIn(status model.BookingStatus, set []model.BookingStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// seed inserts a booking directly, bypassing the conflict check.
func (f *fakeBookingStore) seed(b *model.Booking) *model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	b.ID = f.seq
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	f.bookings[b.ID] = &stored
	return b
}

func (f *fakeBookingStore) status(id int64) model.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

type fakeAvailabilityStore struct {
	mu      sync.Mutex
	windows map[int64][]*model.AvailabilityWindow
}

func newFakeAvailabilityStore() *fakeAvailabilityStore {
	return &fakeAvailabilityStore{windows: make(map[int64][]*model.AvailabilityWindow)}
}

func (f *fakeAvailabilityStore) ReplaceForCounsellor(ctx context.Context, counsellorID int64, windows []*model.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[counsellorID] = windows
	return nil
}

func (f *fakeAvailabilityStore) ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windows[counsellorID], nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	seq           int64
	notifications []*model.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	n.ID = f.seq
	n.CreatedAt = time.Now()
	clone := *n
	f.notifications = append(f.notifications, &clone)
	return nil
}

func (f *fakeNotificationStore) ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, recipientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFoundf("notification")
}

func (f *fakeNotificationStore) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	var kept []*model.Notification
	var removed int64
	for _, n := range f.notifications {
		if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return removed, nil
}

func (f *fakeNotificationStore) byRecipient(recipientID int64) []*model.Notification {
	out, _ := f.ListByRecipient(context.Background(), recipientID)
	return out
}

type fakeDirectory struct {
	users map[int64]*model.User
}

func newFakeDirectory(users ...*model.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[int64]*model.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return d.users[id], nil
}

func (d *fakeDirectory) ListActiveAdmins(ctx context.Context) ([]*model.User, error) {
	var admins []*model.User
	for _, u := range d.users {
		if u.Role == model.RoleAdmin && u.IsActive {
			admins = append(admins, u)
		}
	}
	return admins, nil
}
