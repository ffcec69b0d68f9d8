package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shiftmate/internal/caching"
	"shiftmate/internal/models"
	"shiftmate/internal/repositories"

	"github.com/google/uuid"
)

const settingCacheTTL = 5 * time.Minute

// SettingsService resolves per-tenant boolean flags with a caller-supplied
// fallback when no override exists.
type SettingsService interface {
	IsEnabled(ctx context.Context, tenantID uuid.UUID, key string, fallback bool) (bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, key string, value bool) error
	Unset(ctx context.Context, tenantID uuid.UUID, key string) error
}

type settingsService struct {
	settingRepo repositories.SettingRepository
	cacheSvc    caching.CacheService
}

func NewSettingsService(settingRepo repositories.SettingRepository, cacheSvc caching.CacheService) SettingsService {
	return &settingsService{settingRepo: settingRepo, cacheSvc: cacheSvc}
}

// IsEnabled returns the tenant's override for the key, or fallback when the
// tenant has none. A missing override is not an error; a repository failure is.
// Cache errors are soft: the lookup falls through to the repository.
func (s *settingsService) IsEnabled(ctx context.Context, tenantID uuid.UUID, key string, fallback bool) (bool, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetSetting(ctx, tenantID, key)
		if err != nil {
			log.Printf("Setting cache read failed for tenant %s key %s: %v", tenantID.String(), key, err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	setting, err := s.settingRepo.Get(ctx, tenantID, key)
	if err != nil {
		return false, fmt.Errorf("get setting %s for tenant %s: %w", key, tenantID.String(), err)
	}
	if setting == nil {
		return fallback, nil
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetSetting(ctx, tenantID, key, setting.Value, settingCacheTTL); err != nil {
			log.Printf("Setting cache write failed for tenant %s key %s: %v", tenantID.String(), key, err)
		}
	}
	return setting.Value, nil
}

func (s *settingsService) Set(ctx context.Context, tenantID uuid.UUID, key string, value bool) error {
	setting := &models.TenantSetting{
		ID:       uuid.New(),
		TenantID: tenantID,
		Key:      key,
		Value:    value,
	}
	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID, key)
	return nil
}

func (s *settingsService) Unset(ctx context.Context, tenantID uuid.UUID, key string) error {
	if err := s.settingRepo.Delete(ctx, tenantID, key); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID, key)
	return nil
}

func (s *settingsService) invalidate(ctx context.Context, tenantID uuid.UUID, key string) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteSetting(ctx, tenantID, key); err != nil {
		log.Printf("Setting cache invalidation failed for tenant %s key %s: %v", tenantID.String(), key, err)
	}
}
