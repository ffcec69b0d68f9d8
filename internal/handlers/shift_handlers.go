package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shiftmate/internal/common"
	"shiftmate/internal/models"
	"shiftmate/internal/repositories"
	"shiftmate/internal/timeutil"

	"github.com/labstack/echo/v4"
)

type ShiftHandlers struct {
	shiftRepo repositories.ShiftRepository
	boundary  *timeutil.Boundary
}

func NewShiftHandlers(shiftRepo repositories.ShiftRepository, boundary *timeutil.Boundary) *ShiftHandlers {
	return &ShiftHandlers{shiftRepo: shiftRepo, boundary: boundary}
}

// ListShifts returns the tenant's shifts, newest scheduled end first
func (h *ShiftHandlers) ListShifts(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	limit, offset, err := common.ValidatePaginationParams(
		intQueryParam(c, "limit", 50),
		intQueryParam(c, "offset", 0),
	)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	shifts, err := h.shiftRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list shifts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"shifts": shifts,
	})
}

// GetShift returns a single shift
func (h *ShiftHandlers) GetShift(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	shiftID, err := common.ValidateUUID(c.Param("id"), "shift id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	shift, err := h.shiftRepo.GetByID(ctx, tenantID, shiftID)
	if err != nil {
		return common.SendNotFoundError(c, "Shift")
	}

	return c.JSON(http.StatusOK, shift)
}

// ListOverdueShifts returns the tenant's currently overdue open shifts
func (h *ShiftHandlers) ListOverdueShifts(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	now := h.boundary.NowUTC()
	shifts, err := h.shiftRepo.FindOverdueOpen(ctx, tenantID, now)
	if err != nil {
		return common.SendServerError(c, "Failed to list overdue shifts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"as_of":  now,
		"shifts": shifts,
	})
}

// CloseShift force-closes a shift, conditional on it still being open
func (h *ShiftHandlers) CloseShift(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	shiftID, err := common.ValidateUUID(c.Param("id"), "shift id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	err = h.shiftRepo.CloseIfOpen(ctx, tenantID, shiftID, models.ShiftStatusClosed, h.boundary.NowUTC())
	if err != nil {
		if errors.Is(err, repositories.ErrShiftAlreadyClosed) {
			return common.SendConflictError(c, "Shift is already closed")
		}
		return common.SendServerError(c, "Failed to close shift")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Shift closed",
	})
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// GetDayBoundaries returns UTC day boundaries for the given timezone's
// current calendar day
func (h *ShiftHandlers) GetDayBoundaries(c echo.Context) error {
	tz := c.QueryParam("tz")
	if tz == "" {
		return common.SendValidationError(c, "tz", "tz query parameter is required")
	}

	start, end, err := h.boundary.DayBoundariesForTimezone(tz)
	if err != nil {
		var tzErr *timeutil.InvalidTimezoneError
		if errors.As(err, &tzErr) {
			return common.SendValidationError(c, "tz", tzErr.Error())
		}
		return common.SendServerError(c, "Failed to compute day boundaries")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"timezone": tz,
		"start":    start,
		"end":      end,
	})
}
