package handlers

import (
	"net/http"

	"shiftmate/internal/common"
	"shiftmate/internal/models"
	"shiftmate/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsSvc services.SettingsService
}

func NewSettingsHandlers(settingsSvc services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsSvc: settingsSvc}
}

type autoCloseSettingResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

type autoCloseSettingRequest struct {
	Enabled bool `json:"enabled"`
}

// GetAutoCloseSetting returns the tenant's effective auto-close flag. A tenant
// with no override reads as disabled.
func (h *SettingsHandlers) GetAutoCloseSetting(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	enabled, err := h.settingsSvc.IsEnabled(ctx, tenantID, models.SettingAutoCloseShifts, false)
	if err != nil {
		return common.SendServerError(c, "Failed to read setting")
	}

	return c.JSON(http.StatusOK, autoCloseSettingResponse{
		Key:     models.SettingAutoCloseShifts,
		Enabled: enabled,
	})
}

// PutAutoCloseSetting sets the tenant's auto-close flag
func (h *SettingsHandlers) PutAutoCloseSetting(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var req autoCloseSettingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request data")
	}

	if err := h.settingsSvc.Set(ctx, tenantID, models.SettingAutoCloseShifts, req.Enabled); err != nil {
		return common.SendServerError(c, "Failed to update setting")
	}

	return c.JSON(http.StatusOK, autoCloseSettingResponse{
		Key:     models.SettingAutoCloseShifts,
		Enabled: req.Enabled,
	})
}
