package models

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus is the lifecycle state of a work shift.
type ShiftStatus string

const (
	ShiftStatusOpen    ShiftStatus = "open"
	ShiftStatusOnBreak ShiftStatus = "on_break"
	ShiftStatusClosed  ShiftStatus = "closed"
)

// ActiveShiftStatuses are the statuses representing work in progress.
func ActiveShiftStatuses() []ShiftStatus {
	return []ShiftStatus{ShiftStatusOpen, ShiftStatusOnBreak}
}

// Active reports whether the status represents work in progress.
func (s ShiftStatus) Active() bool {
	return s == ShiftStatusOpen || s == ShiftStatusOnBreak
}

type Shift struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	UserID       uuid.UUID   `json:"user_id" db:"user_id"`
	TenantID     uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	Status       ShiftStatus `json:"status" db:"status"`
	ScheduledEnd time.Time   `json:"scheduled_end" db:"scheduled_end"`
	ActualEnd    *time.Time  `json:"actual_end,omitempty" db:"actual_end"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the shift is still in progress: an active status and
// no recorded end.
func (s *Shift) IsOpen() bool {
	return s.Status.Active() && s.ActualEnd == nil
}
