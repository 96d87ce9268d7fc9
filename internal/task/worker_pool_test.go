package task

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	queue := NewTaskQueue(1, nil)

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 5}, setupTestLogger())
	assert.Equal(t, 5, pool.workerCount)

	// Invalid counts fall back to a single worker
	for _, n := range []int{0, -5} {
		pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: n}, setupTestLogger())
		assert.Equal(t, 1, pool.workerCount)
	}

	assert.Equal(t, 6, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_DrainsClosedQueue(t *testing.T) {
	const total = 25
	queue := NewTaskQueue(total, setupTestLogger())

	var executed atomic.Int32
	for i := 0; i < total; i++ {
		task := newMockTask()
		task.execFn = func(ctx context.Context) error {
			executed.Add(1)
			return nil
		}
		require.NoError(t, queue.Enqueue(task))
	}
	queue.Close()

	var settled atomic.Int32
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 4}, setupTestLogger())
	pool.SetDoneHandler(func(task Task, err error) {
		assert.NoError(t, err)
		settled.Add(1)
	})
	pool.StartContext(context.Background())
	pool.Wait()

	assert.Equal(t, int32(total), executed.Load())
	assert.Equal(t, int32(total), settled.Load())
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	const workers = 3
	queue := NewTaskQueue(20, setupTestLogger())

	var (
		mu      sync.Mutex
		current int
		peak    int
	)
	for i := 0; i < 20; i++ {
		task := newMockTask()
		task.execFn = func(ctx context.Context) error {
			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()
			return nil
		}
		require.NoError(t, queue.Enqueue(task))
	}
	queue.Close()

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: workers}, setupTestLogger())
	pool.StartContext(context.Background())
	pool.Wait()

	assert.LessOrEqual(t, peak, workers)
	assert.Positive(t, peak)
}

func TestWorkerPool_ErrorAndPanic(t *testing.T) {
	queue := NewTaskQueue(2, setupTestLogger())

	expectedErr := errors.New("test error")
	failing := newMockTask()
	failing.execFn = func(ctx context.Context) error { return expectedErr }
	panicking := newMockTask()
	panicking.execFn = func(ctx context.Context) error { panic("test panic") }

	require.NoError(t, queue.Enqueue(failing))
	require.NoError(t, queue.Enqueue(panicking))
	queue.Close()

	var (
		mu   sync.Mutex
		errs = map[string]error{}
		done int
	)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.SetErrorHandler(func(task Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs[task.ID().String()] = err
	})
	pool.SetDoneHandler(func(task Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		done++
	})
	pool.StartContext(context.Background())
	pool.Wait()

	assert.Equal(t, 2, done)
	assert.Equal(t, expectedErr, errs[failing.ID().String()])
	require.Error(t, errs[panicking.ID().String()])
	assert.Contains(t, errs[panicking.ID().String()].Error(), "panic")
}

func TestWorkerPool_CancelledContextStillSettlesQueuedTasks(t *testing.T) {
	const total = 12
	queue := NewTaskQueue(total, setupTestLogger())

	var sawCancel atomic.Int32
	for i := 0; i < total; i++ {
		task := newMockTask()
		task.execFn = func(ctx context.Context) error {
			if ctx.Err() != nil {
				sawCancel.Add(1)
			}
			return ctx.Err()
		}
		require.NoError(t, queue.Enqueue(task))
	}
	queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var settled, failed atomic.Int32
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 3}, setupTestLogger())
	pool.SetErrorHandler(func(task Task, err error) {
		assert.ErrorIs(t, err, context.Canceled)
		failed.Add(1)
	})
	pool.SetDoneHandler(func(task Task, err error) {
		settled.Add(1)
	})
	pool.StartContext(ctx)
	pool.Wait()

	assert.Equal(t, int32(total), settled.Load())
	assert.Equal(t, int32(total), failed.Load())
	assert.Equal(t, int32(total), sawCancel.Load())
}

func TestWorkerPool_ErrorLogIsRedacted(t *testing.T) {
	queue := NewTaskQueue(1, setupTestLogger())
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		return errors.New("401: Incorrect API key provided: sk-proj-abcdefghijklmnop")
	}
	require.NoError(t, queue.Enqueue(task))
	queue.Close()

	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, l)
	pool.StartContext(context.Background())
	pool.Wait()

	out := buf.String()
	assert.Contains(t, out, "task failed")
	assert.Contains(t, out, "[REDACTED_KEY]")
	assert.NotContains(t, out, "sk-proj-abcdefghijklmnop")
}

func TestWorkerPool_StartContextPropagatesCancellation(t *testing.T) {
	queue := NewTaskQueue(1, setupTestLogger())

	started := make(chan struct{})
	seen := make(chan error, 1)
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		seen <- ctx.Err()
		return ctx.Err()
	}
	require.NoError(t, queue.Enqueue(task))
	queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.StartContext(ctx)
	pool.StartContext(ctx)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for task to start")
	}
	cancel()
	pool.Wait()

	select {
	case err := <-seen:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("task did not observe cancellation")
	}
}
