package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	name     string
	interval time.Duration
	runs     atomic.Int32
	err      error
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestManager_RunsJobsUntilStopped(t *testing.T) {
	m := NewManager(context.Background())
	fast := &countingJob{name: "fast", interval: 5 * time.Millisecond}
	failing := &countingJob{name: "failing", interval: time.Hour, err: errors.New("boom")}
	m.Register(fast)
	m.Register(failing)
	m.Register(nil)
	assert.Equal(t, []string{"fast", "failing"}, m.Jobs())

	m.Start()
	m.Start()

	assert.Eventually(t, func() bool { return fast.runs.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return failing.runs.Load() == 1 }, time.Second, time.Millisecond)

	m.Stop()
	m.Wait()

	after := fast.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, fast.runs.Load())
}

func TestManager_RegisterAfterStartIgnored(t *testing.T) {
	m := NewManager(context.Background())
	m.Start()

	late := &countingJob{name: "late", interval: time.Millisecond}
	m.Register(late)
	assert.Empty(t, m.Jobs())

	m.Stop()
	m.Wait()
	assert.Zero(t, late.runs.Load())
}

func TestManager_ParentCancelStopsJobs(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent)
	m.Register(&countingJob{name: "job", interval: time.Millisecond})
	m.Start()

	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs did not stop after parent cancel")
	}
}
