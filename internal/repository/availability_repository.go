package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuswell/counselbook/internal/model"
	"github.com/campuswell/counselbook/internal/repository/base"
)

// AvailabilityRepository manages the recurring weekly windows of each
// counsellor.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// ReplaceForCounsellor swaps the counsellor's whole window set in one
// transaction: delete everything, insert the new set under a fresh
// schedule version. A schedule update is a replacement, never a merge.
func (r *AvailabilityRepository) ReplaceForCounsellor(ctx context.Context, counsellorID int64, windows []*model.AvailabilityWindow) error {
	version := uuid.New()

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.LockCounsellor(ctx, tx, counsellorID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM availability_windows WHERE counsellor_id = $1`, counsellorID); err != nil {
			return fmt.Errorf("delete availability windows: %w", err)
		}

		query := `
			INSERT INTO availability_windows
				(counsellor_id, weekday, start_minute, end_minute, duration_minutes, gap_minutes, max_sessions, schedule_version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`
		for _, w := range windows {
			w.CounsellorID = counsellorID
			w.ScheduleVersion = version
			err := tx.QueryRow(
				ctx, query,
				counsellorID,
				w.Weekday,
				w.StartMinute,
				w.EndMinute,
				w.DurationMinutes,
				w.GapMinutes,
				w.MaxSessions,
				version,
			).Scan(&w.ID, &w.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert availability window: %w", err)
			}
		}
		return nil
	})
}

// ListByCounsellor returns the counsellor's windows in definition order.
func (r *AvailabilityRepository) ListByCounsellor(ctx context.Context, counsellorID int64) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT id, counsellor_id, weekday, start_minute, end_minute, duration_minutes, gap_minutes, max_sessions, schedule_version, created_at
		FROM availability_windows
		WHERE counsellor_id = $1
		ORDER BY id
	`
	rows, err := r.Pool().Query(ctx, query, counsellorID)
	if err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}
	defer rows.Close()

	var windows []*model.AvailabilityWindow
	for rows.Next() {
		var w model.AvailabilityWindow
		err := rows.Scan(
			&w.ID,
			&w.CounsellorID,
			&w.Weekday,
			&w.StartMinute,
			&w.EndMinute,
			&w.DurationMinutes,
			&w.GapMinutes,
			&w.MaxSessions,
			&w.ScheduleVersion,
			&w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		windows = append(windows, &w)
	}

	return windows, rows.Err()
}
