package jobs

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulingContract(t *testing.T) {
	contract := DefaultSchedulingContract()
	assert.Equal(t, "maintenance", contract.Queue)
	assert.Equal(t, 3, contract.MaxRetry)
	assert.Equal(t, 30*time.Second, contract.RetryDelay)
	assert.Equal(t, 5*time.Minute, contract.UniquenessWindow)
	assert.Equal(t, 5*time.Minute, contract.Timeout)
}

func TestTaskOptions_MapContract(t *testing.T) {
	contract := SchedulingContract{
		Queue:            "maintenance",
		MaxRetry:         4,
		RetryDelay:       45 * time.Second,
		UniquenessWindow: 10 * time.Minute,
		Timeout:          2 * time.Minute,
	}

	opts := contract.TaskOptions()
	assert.Len(t, opts, 4)

	values := make(map[asynq.OptionType]interface{}, len(opts))
	for _, opt := range opts {
		values[opt.Type()] = opt.Value()
	}

	assert.Equal(t, "maintenance", values[asynq.QueueOpt])
	assert.Equal(t, 4, values[asynq.MaxRetryOpt])
	assert.Equal(t, 10*time.Minute, values[asynq.UniqueOpt])
	assert.Equal(t, 2*time.Minute, values[asynq.TimeoutOpt])
}

func TestRetryDelayFunc_FixedDelay(t *testing.T) {
	contract := SchedulingContract{RetryDelay: 30 * time.Second}
	task := asynq.NewTask(TypeAutoCloseSweep, nil)
	err := errors.New("sweep failed")

	// The delay does not grow with the attempt count.
	for _, attempt := range []int{1, 2, 3, 10} {
		assert.Equal(t, 30*time.Second, contract.RetryDelayFunc(attempt, err, task))
	}
}

func TestNewAutoCloseSweepTask(t *testing.T) {
	contract := DefaultSchedulingContract()

	task, err := NewAutoCloseSweepTask(contract, "scheduler")
	assert.NoError(t, err)
	assert.Equal(t, TypeAutoCloseSweep, task.Type())

	var payload AutoCloseSweepPayload
	assert.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "scheduler", payload.Trigger)
}
