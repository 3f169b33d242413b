package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
	"github.com/campuswell/counselbook/internal/repository/base"
)

const bookingColumns = `id, student_id, counsellor_id, start_at, end_at, status,
		coalesce(student_notes, ''), coalesce(counsellor_notes, ''), coalesce(reason, ''),
		actual_start_at, actual_end_at, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.StudentID,
		&b.CounsellorID,
		&b.StartAt,
		&b.EndAt,
		&b.Status,
		&b.StudentNotes,
		&b.CounsellorNotes,
		&b.Reason,
		&b.ActualStartAt,
		&b.ActualEndAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateSerialized inserts a pending booking after re-checking the
// conflict space under the counsellor's advisory lock. The check and the
// insert commit as one unit: of two racing creates on overlapping slots,
// exactly one succeeds and the other sees apperr.ErrConflict.
func (r *BookingRepository) CreateSerialized(ctx context.Context, booking *model.Booking, sessionLimit int) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.LockCounsellor(ctx, tx, booking.CounsellorID); err != nil {
			return err
		}

		count, err := countOverlapping(ctx, tx, booking.CounsellorID, booking.StartAt, booking.EndAt, 0)
		if err != nil {
			return err
		}
		if count >= sessionLimit {
			return apperr.ErrConflict
		}

		query := `
			INSERT INTO bookings (student_id, counsellor_id, start_at, end_at, status, student_notes)
			VALUES ($1, $2, $3, $4, $5, nullif($6, ''))
			RETURNING id, created_at, updated_at
		`
		err = tx.QueryRow(
			ctx, query,
			booking.StudentID,
			booking.CounsellorID,
			booking.StartAt,
			booking.EndAt,
			booking.Status,
			booking.StudentNotes,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

// RescheduleSerialized moves a booking to a new slot, re-running the
// conflict check (excluding the booking itself) under the same advisory
// lock as create. The update only lands while the booking is still in one
// of the expected from-states; zero rows means a concurrent transition won.
func (r *BookingRepository) RescheduleSerialized(ctx context.Context, booking *model.Booking, newStart, newEnd time.Time, reason string, sessionLimit int, from []model.BookingStatus) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.LockCounsellor(ctx, tx, booking.CounsellorID); err != nil {
			return err
		}

		count, err := countOverlapping(ctx, tx, booking.CounsellorID, newStart, newEnd, booking.ID)
		if err != nil {
			return err
		}
		if count >= sessionLimit {
			return apperr.ErrConflict
		}

		query := `
			UPDATE bookings
			SET start_at = $1, end_at = $2, status = $3, reason = nullif($4, ''), updated_at = now()
			WHERE id = $5 AND status = ANY($6)
		`
		tag, err := tx.Exec(ctx, query, newStart, newEnd, model.BookingStatusRescheduled, reason, booking.ID, statusStrings(from))
		if err != nil {
			return fmt.Errorf("reschedule booking: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.ErrIllegalTransition
		}
		return nil
	})
}

func countOverlapping(ctx context.Context, tx pgx.Tx, counsellorID int64, start, end time.Time, excludeID int64) (int, error) {
	query := `
		SELECT count(*)
		FROM bookings
		WHERE counsellor_id = $1
		  AND status IN ('pending', 'confirmed', 'rescheduled')
		  AND start_at < $3
		  AND $2 < end_at
		  AND id <> $4
	`
	var count int
	if err := tx.QueryRow(ctx, query, counsellorID, start, end, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count, nil
}

// CountOverlapping counts active bookings intersecting [start, end) for
// the counsellor. The half-open comparison means a booking ending exactly
// at start never counts. Used by the advisory slot listing; the
// authoritative check runs inside CreateSerialized.
func (r *BookingRepository) CountOverlapping(ctx context.Context, counsellorID int64, start, end time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM bookings
		WHERE counsellor_id = $1
		  AND status IN ('pending', 'confirmed', 'rescheduled')
		  AND start_at < $3
		  AND $2 < end_at
	`
	var count int
	if err := r.Pool().QueryRow(ctx, query, counsellorID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count, nil
}

// ListActiveBetween returns the counsellor's active bookings intersecting
// [from, to), ordered by start, so the slot listing can batch its conflict
// filtering in one query.
func (r *BookingRepository) ListActiveBetween(ctx context.Context, counsellorID int64, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE counsellor_id = $1
		  AND status IN ('pending', 'confirmed', 'rescheduled')
		  AND start_at < $3
		  AND $2 < end_at
		ORDER BY start_at
	`
	rows, err := r.Pool().Query(ctx, query, counsellorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByID returns the booking, or (nil, nil) when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// ListByStudent returns all of a student's bookings, newest first.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY created_at DESC`

	rows, err := r.Pool().Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by student: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByCounsellor returns all of a counsellor's bookings, newest first.
func (r *BookingRepository) ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE counsellor_id = $1 ORDER BY created_at DESC`

	rows, err := r.Pool().Query(ctx, query, counsellorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by counsellor: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateDecision applies an approve/reject/cancel/no-show outcome: the new
// status plus whichever of notes and reason the transition recorded. The
// status column doubles as the precondition: the write only lands while
// the booking is still in one of the expected from-states, so two racing
// transitions can never both succeed.
func (r *BookingRepository) UpdateDecision(ctx context.Context, id int64, status model.BookingStatus, counsellorNotes, reason string, from []model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1,
		    counsellor_notes = coalesce(nullif($2, ''), counsellor_notes),
		    reason = coalesce(nullif($3, ''), reason),
		    updated_at = now()
		WHERE id = $4 AND status = ANY($5)
	`
	tag, err := r.Pool().Exec(ctx, query, status, counsellorNotes, reason, id, statusStrings(from))
	if err != nil {
		return fmt.Errorf("update booking decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrIllegalTransition
	}
	return nil
}

// Complete marks the booking completed, storing the session summary and
// the actual start/end when they differ from the scheduled slot. Guarded
// on the from-states the same way as UpdateDecision.
func (r *BookingRepository) Complete(ctx context.Context, id int64, counsellorNotes string, actualStart, actualEnd *time.Time, from []model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1,
		    counsellor_notes = coalesce(nullif($2, ''), counsellor_notes),
		    actual_start_at = $3,
		    actual_end_at = $4,
		    updated_at = now()
		WHERE id = $5 AND status = ANY($6)
	`
	tag, err := r.Pool().Exec(ctx, query, model.BookingStatusCompleted, counsellorNotes, actualStart, actualEnd, id, statusStrings(from))
	if err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrIllegalTransition
	}
	return nil
}

func statusStrings(statuses []model.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// DeleteInactiveByUser removes a deleted user's non-active bookings, as
// part of the administrative cascade. Active bookings are never deleted.
func (r *BookingRepository) DeleteInactiveByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		DELETE FROM bookings
		WHERE (student_id = $1 OR counsellor_id = $1)
		  AND status NOT IN ('pending', 'confirmed', 'rescheduled')
	`
	tag, err := r.Pool().Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete inactive bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
