package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetmint-go/internal/config"
)

// dummyRunner counts cycles and does nothing else
type dummyRunner struct {
	cycles atomic.Int32
}

func (d *dummyRunner) RunCycle(ctx context.Context) error {
	d.cycles.Add(1)
	return nil
}

// blockingRunner holds a cycle open until released so tests can fire
// triggers against an in-flight cycle.
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	cycles  atomic.Int32
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) RunCycle(ctx context.Context) error {
	r.cycles.Add(1)
	r.started <- struct{}{}
	<-r.release
	return nil
}

func TestSchedulerRestart(t *testing.T) {
	cfg := &config.SchedulerConfig{IntervalMinutes: 60}
	sched := NewScheduler(cfg, &dummyRunner{})

	require.NoError(t, sched.Start())
	assert.True(t, sched.IsRunning())

	require.NoError(t, sched.Stop())
	assert.False(t, sched.IsRunning())

	require.NoError(t, sched.Start())
	assert.True(t, sched.IsRunning())
	// context must be active again after a restart
	require.NotNil(t, sched.ctx)
	assert.NoError(t, sched.ctx.Err())

	sched.Stop()
}

func TestSchedulerRejectsDoubleStart(t *testing.T) {
	cfg := &config.SchedulerConfig{IntervalMinutes: 60}
	sched := NewScheduler(cfg, &dummyRunner{})

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Error(t, sched.Start())
}

func TestRunOnce(t *testing.T) {
	cfg := &config.SchedulerConfig{IntervalMinutes: 60}
	runner := &dummyRunner{}
	sched := NewScheduler(cfg, runner)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	require.NoError(t, sched.RunOnce())
	assert.Equal(t, int32(1), runner.cycles.Load())
}

func TestTriggerDroppedWhileCycleInFlight(t *testing.T) {
	cfg := &config.SchedulerConfig{IntervalMinutes: 60}
	runner := newBlockingRunner()
	sched := NewScheduler(cfg, runner)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	go sched.RunOnce()
	<-runner.started // first cycle is now in flight

	// A second manual trigger must return immediately without running a
	// concurrent cycle.
	done := make(chan struct{})
	go func() {
		sched.RunOnce()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger was not dropped while a cycle was in flight")
	}
	assert.Equal(t, int32(1), runner.cycles.Load())

	close(runner.release)
	sched.Wait()
	assert.Equal(t, int32(1), runner.cycles.Load())
}
