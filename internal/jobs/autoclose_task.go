package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shiftmate/internal/services"

	"github.com/hibiken/asynq"
)

// Task type definitions
const (
	TypeAutoCloseSweep = "shift:auto_close_sweep"
)

// SchedulingContract is the explicit run contract the sweep relies on from the
// queue: at most one instance within the uniqueness window (overlapping
// triggers are dropped, not queued), and bounded fixed-delay retries for
// whole-sweep failures before the failure is surfaced.
type SchedulingContract struct {
	Queue            string
	MaxRetry         int
	RetryDelay       time.Duration
	UniquenessWindow time.Duration
	Timeout          time.Duration
}

// DefaultSchedulingContract returns the contract used when no configuration
// overrides it.
func DefaultSchedulingContract() SchedulingContract {
	return SchedulingContract{
		Queue:            "maintenance",
		MaxRetry:         3,
		RetryDelay:       30 * time.Second,
		UniquenessWindow: 5 * time.Minute,
		Timeout:          5 * time.Minute,
	}
}

// TaskOptions maps the contract to asynq enqueue options.
func (c SchedulingContract) TaskOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(c.Queue),
		asynq.MaxRetry(c.MaxRetry),
		asynq.Unique(c.UniquenessWindow),
		asynq.Timeout(c.Timeout),
	}
}

// RetryDelayFunc applies the contract's fixed delay between retries; it is
// wired into the asynq server config.
func (c SchedulingContract) RetryDelayFunc(n int, err error, t *asynq.Task) time.Duration {
	return c.RetryDelay
}

// AutoCloseSweepPayload is the task payload. The sweep takes no arguments;
// the trigger field only records where the run came from.
type AutoCloseSweepPayload struct {
	Trigger string `json:"trigger"`
}

// NewAutoCloseSweepTask creates the sweep task with the contract's options
// attached.
func NewAutoCloseSweepTask(contract SchedulingContract, trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(AutoCloseSweepPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAutoCloseSweep, data, contract.TaskOptions()...), nil
}

// AutoCloseHandler processes sweep tasks from the queue.
type AutoCloseHandler struct {
	autoCloseSvc *services.AutoCloseService
}

func NewAutoCloseHandler(autoCloseSvc *services.AutoCloseService) *AutoCloseHandler {
	return &AutoCloseHandler{autoCloseSvc: autoCloseSvc}
}

// HandleAutoCloseSweep runs one sweep. Per-shift failures are absorbed inside
// the sweep; only collaborator-level failures return an error, which asynq
// retries per the contract.
func (h *AutoCloseHandler) HandleAutoCloseSweep(ctx context.Context, t *asynq.Task) error {
	var payload AutoCloseSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Printf("Auto-close sweep payload unreadable, running anyway: %v", err)
	}

	report, err := h.autoCloseSvc.Sweep(ctx)
	if err != nil {
		log.Printf("Auto-close sweep failed (trigger %q): %v", payload.Trigger, err)
		return err
	}

	log.Printf("Auto-close sweep done (trigger %q): %d closed, %d failed", payload.Trigger, report.Closed, report.Failed)
	return nil
}
