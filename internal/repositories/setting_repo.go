package repositories

import (
	"context"
	"errors"

	"shiftmate/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SettingRepository interface {
	// Get returns the tenant's override for the key, or (nil, nil) when no
	// override exists. "Not configured" is the expected common case.
	Get(ctx context.Context, tenantID uuid.UUID, key string) (*models.TenantSetting, error)
	Upsert(ctx context.Context, setting *models.TenantSetting) error
	Delete(ctx context.Context, tenantID uuid.UUID, key string) error
}

type settingRepo struct {
	db DB
}

func NewSettingRepo(db DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, tenantID uuid.UUID, key string) (*models.TenantSetting, error) {
	setting := &models.TenantSetting{}
	query := `
		SELECT id, tenant_id, setting_key, value, created_at, updated_at
		FROM tenant_settings
		WHERE tenant_id = $1 AND setting_key = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, key).Scan(&setting.ID, &setting.TenantID, &setting.Key, &setting.Value, &setting.CreatedAt, &setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *settingRepo) Upsert(ctx context.Context, setting *models.TenantSetting) error {
	query := `
		INSERT INTO tenant_settings (id, tenant_id, setting_key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (tenant_id, setting_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, setting.ID, setting.TenantID, setting.Key, setting.Value)
	return err
}

func (r *settingRepo) Delete(ctx context.Context, tenantID uuid.UUID, key string) error {
	query := `DELETE FROM tenant_settings WHERE tenant_id = $1 AND setting_key = $2`
	_, err := r.db.Exec(ctx, query, tenantID, key)
	return err
}
