package background

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"shiftmate/internal/jobs"
	"shiftmate/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/hibiken/asynq"
)

// JobScheduler drives the background jobs. Each tick of the auto-close job
// enqueues a unique queue task when a queue client is configured, so the
// uniqueness window holds across instances; without a client the sweep runs
// inline (single-node mode), with singleton mode dropping overlapping ticks.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	autoCloseSvc *services.AutoCloseService
	queueClient  *asynq.Client
	contract     jobs.SchedulingContract
	interval     time.Duration
	jobsByName   map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(
	autoCloseSvc *services.AutoCloseService,
	queueClient *asynq.Client,
	contract jobs.SchedulingContract,
	interval time.Duration,
) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		autoCloseSvc: autoCloseSvc,
		queueClient:  queueClient,
		contract:     contract,
		interval:     interval,
		jobsByName:   make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	autoCloseJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.runAutoCloseSweep, context.Background()),
		gocron.WithName("shift-auto-close"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create auto-close job: %v", err)
	} else {
		js.jobsByName["shift-auto-close"] = autoCloseJob
	}

	log.Printf("Registered %d background jobs", len(js.jobsByName))
}

// runAutoCloseSweep is the timer entry point for the sweep.
func (js *JobScheduler) runAutoCloseSweep(ctx context.Context) error {
	if js.queueClient != nil {
		return js.enqueueSweep(ctx, "scheduler")
	}

	report, err := js.autoCloseSvc.Sweep(ctx)
	if err != nil {
		log.Printf("Scheduled auto-close sweep failed: %v", err)
		return err
	}
	log.Printf("Scheduled auto-close sweep closed %d shifts", report.Closed)
	return nil
}

// EnqueueSweep pushes a sweep task onto the queue, or runs it inline when no
// queue is configured. A duplicate within the uniqueness window is dropped
// silently per the contract.
func (js *JobScheduler) EnqueueSweep(ctx context.Context, trigger string) error {
	if js.queueClient == nil {
		_, err := js.autoCloseSvc.Sweep(ctx)
		return err
	}
	return js.enqueueSweep(ctx, trigger)
}

func (js *JobScheduler) enqueueSweep(ctx context.Context, trigger string) error {
	task, err := jobs.NewAutoCloseSweepTask(js.contract, trigger)
	if err != nil {
		return err
	}
	if _, err := js.queueClient.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			log.Printf("Auto-close sweep already queued, dropping trigger %q", trigger)
			return nil
		}
		log.Printf("Failed to enqueue auto-close sweep: %v", err)
		return err
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobsByName)
	names := make([]string, 0, len(js.jobsByName))

	for name := range js.jobsByName {
		names = append(names, name)
	}

	status["jobs"] = names
	status["interval"] = js.interval.String()
	status["queue"] = js.contract.Queue

	return status
}
