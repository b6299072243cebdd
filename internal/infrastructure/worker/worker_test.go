package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_RunsJobImmediatelyAndOnTicker(t *testing.T) {
	var runs atomic.Int32
	m := NewManager()
	m.Register(Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	m.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	m.Shutdown(time.Second)

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestManager_Register_SkipsDisabledJob(t *testing.T) {
	m := NewManager()
	m.Register(Job{Name: "disabled", Interval: 0, Fn: func(context.Context) error { return nil }})
	m.Register(Job{Name: "enabled", Interval: time.Hour, Fn: func(context.Context) error { return nil }})

	assert.Equal(t, []string{"enabled"}, m.Jobs())
}

func TestManager_FailingAndPanickingJobsKeepRunning(t *testing.T) {
	var failing, panicking atomic.Int32
	m := NewManager()
	m.Register(Job{Name: "failing", Interval: 5 * time.Millisecond, Fn: func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}})
	m.Register(Job{Name: "panicking", Interval: 5 * time.Millisecond, Fn: func(context.Context) error {
		panicking.Add(1)
		panic("unexpected")
	}})

	m.Start(context.Background())
	assert.Eventually(t, func() bool { return failing.Load() >= 2 && panicking.Load() >= 2 }, time.Second, 5*time.Millisecond)
	m.Shutdown(time.Second)
}

func TestManager_StopsWhenParentContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Register(Job{Name: "idle", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	m.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestNewHealthCheckJob_PropagatesError(t *testing.T) {
	job := NewHealthCheckJob("database", func(context.Context) error { return errors.New("down") })

	assert.Equal(t, "database_health_check", job.Name)
	assert.EqualError(t, job.Fn(context.Background()), "down")
}
