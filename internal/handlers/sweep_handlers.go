package handlers

import (
	"net/http"

	"shiftmate/internal/common"
	"shiftmate/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

type SweepHandlers struct {
	scheduler *background.JobScheduler
}

func NewSweepHandlers(scheduler *background.JobScheduler) *SweepHandlers {
	return &SweepHandlers{scheduler: scheduler}
}

// TriggerAutoCloseSweep enqueues an out-of-schedule sweep. Overlap with an
// already-queued sweep is dropped per the uniqueness window.
func (h *SweepHandlers) TriggerAutoCloseSweep(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.scheduler.EnqueueSweep(ctx, "manual"); err != nil {
		return common.SendServerError(c, "Failed to trigger auto-close sweep")
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Auto-close sweep triggered",
	})
}

// GetJobStatus reports the scheduler's registered jobs
func (h *SweepHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.GetJobStatus())
}
