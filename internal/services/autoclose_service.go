package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shiftmate/internal/models"
	"shiftmate/internal/repositories"
	"shiftmate/internal/timeutil"

	"github.com/google/uuid"
)

// ShiftOutcome is the per-record result of one close attempt.
type ShiftOutcome struct {
	ShiftID  uuid.UUID `json:"shift_id"`
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Error    string    `json:"error,omitempty"`
}

// SweepReport summarizes one reconciliation pass.
type SweepReport struct {
	StartedAt time.Time      `json:"started_at"`
	Closed    int            `json:"closed"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Failures  []ShiftOutcome `json:"failures,omitempty"`
}

// AutoCloseService force-closes open shifts whose scheduled end has passed,
// per tenant opt-in. Per-shift failures never abort a sweep; a shift that
// fails to close stays overdue-open and is retried on the next cycle.
type AutoCloseService struct {
	shiftRepo  repositories.ShiftRepository
	tenantRepo repositories.TenantRepository
	settings   SettingsService
	boundary   *timeutil.Boundary
}

func NewAutoCloseService(
	shiftRepo repositories.ShiftRepository,
	tenantRepo repositories.TenantRepository,
	settings SettingsService,
	boundary *timeutil.Boundary,
) *AutoCloseService {
	return &AutoCloseService{
		shiftRepo:  shiftRepo,
		tenantRepo: tenantRepo,
		settings:   settings,
		boundary:   boundary,
	}
}

// Sweep runs one reconciliation pass across all tenants. It returns an error
// only for collaborator-level failures (tenant enumeration, settings lookup);
// those fail the invocation so the scheduler's retry policy applies.
func (s *AutoCloseService) Sweep(ctx context.Context) (*SweepReport, error) {
	now := s.boundary.NowUTC()
	report := &SweepReport{StartedAt: now}
	log.Printf("Starting shift auto-close sweep at %s", now.Format(time.RFC3339Nano))

	tenantIDs, err := s.tenantRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	for _, tenantID := range tenantIDs {
		enabled, err := s.settings.IsEnabled(ctx, tenantID, models.SettingAutoCloseShifts, false)
		if err != nil {
			return nil, fmt.Errorf("resolve auto-close setting for tenant %s: %w", tenantID.String(), err)
		}
		if !enabled {
			continue
		}

		shifts, err := s.shiftRepo.FindOverdueOpen(ctx, tenantID, now)
		if err != nil {
			// The tenant's shifts stay overdue-open; next sweep retries them.
			log.Printf("Failed to query overdue shifts for tenant %s: %v", tenantID.String(), err)
			report.Failed++
			continue
		}

		for _, shift := range shifts {
			if err := s.closeOverdue(ctx, shift); err != nil {
				if errors.Is(err, repositories.ErrShiftAlreadyClosed) {
					// Lost the race against a concurrent close; nothing to do.
					report.Skipped++
					continue
				}
				log.Printf("Failed to auto-close shift %s: %v", shift.ID.String(), err)
				report.Failed++
				report.Failures = append(report.Failures, ShiftOutcome{
					ShiftID:  shift.ID,
					UserID:   shift.UserID,
					TenantID: shift.TenantID,
					Error:    err.Error(),
				})
				continue
			}
			report.Closed++
			log.Printf("Auto-closed shift %s (user %s, tenant %s) scheduled to end at %s",
				shift.ID.String(),
				shift.UserID.String(),
				shift.TenantID.String(),
				shift.ScheduledEnd.UTC().Format(time.RFC3339Nano))
		}
	}

	log.Printf("Completed shift auto-close sweep: %d closed, %d failed, %d skipped", report.Closed, report.Failed, report.Skipped)
	return report, nil
}

// closeOverdue records the scheduled end as the shift's actual end. The close
// is a bookkeeping correction for a shift that should have ended at its
// boundary, so it is backdated rather than stamped with the sweep time.
func (s *AutoCloseService) closeOverdue(ctx context.Context, shift *models.Shift) error {
	return s.shiftRepo.CloseIfOpen(ctx, shift.TenantID, shift.ID, models.ShiftStatusClosed, shift.ScheduledEnd.UTC())
}
