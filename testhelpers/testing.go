package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"shiftmate/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=shiftmate_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates a test tenant for testing
func SetupTestTenant(t *testing.T, db *TestDB, timezone string) uuid.UUID {
	t.Helper()

	if timezone == "" {
		timezone = "UTC"
	}

	tenantID := uuid.New()
	query := `
		INSERT INTO tenants (id, name, subdomain, timezone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (subdomain) DO NOTHING
	`
	_, err := db.Pool.Exec(context.Background(), query, tenantID, "Test Tenant", "test-tenant-"+tenantID.String()[:8], timezone, "active")
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	return tenantID
}

// SetupTestShift creates an open test shift scheduled to end at scheduledEnd
func SetupTestShift(t *testing.T, db *TestDB, tenantID uuid.UUID, scheduledEnd time.Time) *models.Shift {
	t.Helper()

	shift := &models.Shift{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		TenantID:     tenantID,
		Status:       models.ShiftStatusOpen,
		ScheduledEnd: scheduledEnd.UTC(),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO shifts (id, user_id, tenant_id, status, scheduled_end, actual_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query,
		shift.ID, shift.UserID, shift.TenantID, shift.Status, shift.ScheduledEnd)
	if err != nil {
		t.Fatalf("Failed to create test shift: %v", err)
	}

	return shift
}

// EnableAutoClose turns the auto-close flag on for a tenant
func EnableAutoClose(t *testing.T, db *TestDB, tenantID uuid.UUID) {
	t.Helper()

	query := `
		INSERT INTO tenant_settings (id, tenant_id, setting_key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (tenant_id, setting_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := db.Pool.Exec(context.Background(), query, uuid.New(), tenantID, models.SettingAutoCloseShifts, true)
	if err != nil {
		t.Fatalf("Failed to enable auto-close for tenant: %v", err)
	}
}
