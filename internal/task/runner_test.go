package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id        uuid.UUID
	executeFn func(ctx context.Context) error
	mu        sync.Mutex
	executed  int
}

func newMockTask(executeFn func(ctx context.Context) error) *mockTask {
	return &mockTask{id: uuid.New(), executeFn: executeFn}
}

func (t *mockTask) ID() uuid.UUID      { return t.id }
func (t *mockTask) Type() string       { return "mock" }
func (t *mockTask) Payload() []byte    { return nil }
func (t *mockTask) Status() TaskStatus { return TaskStatusPending }

func (t *mockTask) Execute(ctx context.Context) error {
	t.mu.Lock()
	t.executed++
	t.mu.Unlock()
	if t.executeFn != nil {
		return t.executeFn(ctx)
	}
	return nil
}

func (t *mockTask) executedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.executed
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskRunner_ExecutesSubmittedTasks(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	done := make(chan struct{})
	task := newMockTask(func(ctx context.Context) error {
		close(done)
		return nil
	})

	require.NoError(t, runner.Submit(context.Background(), task))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed")
	}
	assert.Equal(t, 1, task.executedCount())
}

func TestTaskRunner_QueueFull(t *testing.T) {
	// No workers started, so submitted tasks stay in the queue.
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, testLogger())

	require.NoError(t, runner.Submit(context.Background(), newMockTask(nil)))

	err := runner.Submit(context.Background(), newMockTask(nil))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestTaskRunner_ErrorHandler(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 10}, testLogger())

	handled := make(chan error, 1)
	runner.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})
	require.NoError(t, runner.Start())
	defer runner.Stop()

	taskErr := errors.New("evaluation blew up")
	task := newMockTask(func(ctx context.Context) error {
		return taskErr
	})
	require.NoError(t, runner.Submit(context.Background(), task))

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, taskErr)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestTaskRunner_StopWaitsForWorkers(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	require.NoError(t, runner.Start())

	started := make(chan struct{})
	task := newMockTask(func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	require.NoError(t, runner.Submit(context.Background(), task))

	<-started
	runner.Stop()

	assert.Equal(t, 1, task.executedCount())
}

func TestTaskRunner_StopBeforeAnyWork(t *testing.T) {
	// Initialization bails out after Start when a later dependency fails,
	// so stopping an idle runner must release its workers promptly.
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	require.NoError(t, runner.Start())

	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop with an empty queue")
	}
}

func TestNewTaskRunner_AppliesDefaults(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{}, testLogger())

	assert.Equal(t, DefaultTaskRunnerConfig().WorkerCount, runner.config.WorkerCount)
	assert.Equal(t, DefaultTaskRunnerConfig().QueueSize, runner.config.QueueSize)
}
