package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"shiftmate/internal/models"
	"shiftmate/internal/repositories"
	"shiftmate/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database; set TEST_DATABASE_URL to enable.
func setupIntegration(t *testing.T) *testhelpers.TestDB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db := testhelpers.SetupTestDB(t, "")
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

func TestAutoCloseFlow_Integration(t *testing.T) {
	db := setupIntegration(t)
	ctx := context.Background()

	shiftRepo := repositories.NewShiftRepo(db.Pool)
	settingRepo := repositories.NewSettingRepo(db.Pool)

	tenantID := testhelpers.SetupTestTenant(t, db, "Asia/Tashkent")
	scheduledEnd := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	shift := testhelpers.SetupTestShift(t, db, tenantID, scheduledEnd)
	testhelpers.EnableAutoClose(t, db, tenantID)

	setting, err := settingRepo.Get(ctx, tenantID, models.SettingAutoCloseShifts)
	require.NoError(t, err)
	require.NotNil(t, setting)
	assert.True(t, setting.Value)

	overdue, err := shiftRepo.FindOverdueOpen(ctx, tenantID, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, shift.ID, overdue[0].ID)

	err = shiftRepo.CloseIfOpen(ctx, tenantID, shift.ID, models.ShiftStatusClosed, scheduledEnd)
	require.NoError(t, err)

	closed, err := shiftRepo.GetByID(ctx, tenantID, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusClosed, closed.Status)
	require.NotNil(t, closed.ActualEnd)
	assert.True(t, closed.ActualEnd.Equal(scheduledEnd))

	// A second close must not touch the recorded end.
	err = shiftRepo.CloseIfOpen(ctx, tenantID, shift.ID, models.ShiftStatusClosed, time.Now().UTC())
	assert.ErrorIs(t, err, repositories.ErrShiftAlreadyClosed)

	again, err := shiftRepo.GetByID(ctx, tenantID, shift.ID)
	require.NoError(t, err)
	assert.True(t, again.ActualEnd.Equal(scheduledEnd))
}
