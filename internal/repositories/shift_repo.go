package repositories

import (
	"context"
	"errors"
	"time"

	"shiftmate/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrShiftAlreadyClosed is returned by CloseIfOpen when the guarded update
// matched no row: the shift was closed (or its end recorded) by someone else.
var ErrShiftAlreadyClosed = errors.New("shift already closed")

type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Shift, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Shift, error)
	// FindOverdueOpen returns open shifts whose scheduled end is at or before
	// now. The boundary is inclusive.
	FindOverdueOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.Shift, error)
	// CloseIfOpen transitions the shift to the given status and records
	// closedAt as its actual end, but only if the shift is still open at write
	// time. An already-set actual_end is never overwritten.
	CloseIfOpen(ctx context.Context, tenantID, id uuid.UUID, status models.ShiftStatus, closedAt time.Time) error
}

type shiftRepo struct {
	db DB
}

func NewShiftRepo(db DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func activeStatusStrings() []string {
	statuses := models.ActiveShiftStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *shiftRepo) Create(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (id, user_id, tenant_id, status, scheduled_end, actual_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, shift.ID, shift.UserID, shift.TenantID, shift.Status, shift.ScheduledEnd, shift.ActualEnd)
	return err
}

func (r *shiftRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Shift, error) {
	shift := &models.Shift{}
	query := `
		SELECT id, user_id, tenant_id, status, scheduled_end, actual_end, created_at, updated_at
		FROM shifts
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&shift.ID, &shift.UserID, &shift.TenantID, &shift.Status, &shift.ScheduledEnd, &shift.ActualEnd, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *shiftRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Shift, error) {
	query := `
		SELECT id, user_id, tenant_id, status, scheduled_end, actual_end, created_at, updated_at
		FROM shifts
		WHERE tenant_id = $1
		ORDER BY scheduled_end DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (r *shiftRepo) FindOverdueOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.Shift, error) {
	query := `
		SELECT id, user_id, tenant_id, status, scheduled_end, actual_end, created_at, updated_at
		FROM shifts
		WHERE tenant_id = $1
		  AND status = ANY($2)
		  AND actual_end IS NULL
		  AND scheduled_end <= $3
		ORDER BY scheduled_end
	`
	rows, err := r.db.Query(ctx, query, tenantID, activeStatusStrings(), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (r *shiftRepo) CloseIfOpen(ctx context.Context, tenantID, id uuid.UUID, status models.ShiftStatus, closedAt time.Time) error {
	query := `
		UPDATE shifts
		SET status = $1, actual_end = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
		  AND status = ANY($5)
		  AND actual_end IS NULL
	`
	tag, err := r.db.Exec(ctx, query, status, closedAt, tenantID, id, activeStatusStrings())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftAlreadyClosed
	}
	return nil
}

func scanShifts(rows pgx.Rows) ([]*models.Shift, error) {
	var shifts []*models.Shift
	for rows.Next() {
		shift := &models.Shift{}
		if err := rows.Scan(&shift.ID, &shift.UserID, &shift.TenantID, &shift.Status, &shift.ScheduledEnd, &shift.ActualEnd, &shift.CreatedAt, &shift.UpdatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}
