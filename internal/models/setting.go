package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting keys understood by the settings gate.
const (
	SettingAutoCloseShifts = "auto_close_shifts"
)

// TenantSetting is a per-tenant boolean override. A missing row is the common
// case; callers supply their own fallback.
type TenantSetting struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Key       string    `json:"key" db:"setting_key"`
	Value     bool      `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
