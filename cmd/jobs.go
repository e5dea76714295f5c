package main

import (
	"context"
	"fmt"
	"time"

	"agentconsole/internal/jobs"
	"agentconsole/pkg/lock"
	"agentconsole/pkg/logger"
	"agentconsole/pkg/store"

	"github.com/go-redis/redis/v8"
)

const pageSweepLockKey = "agentform:sweep-lock"

func (app *Application) initJobs() error {
	sweeper, ok := app.pageStore.(store.Sweeper)
	if !ok {
		logger.WarnCtx(app.ctx, "Page store does not support sweeping, skipping background task registration")
		return nil
	}

	manager := jobs.NewManager(app.ctx)

	interval := app.config.Form.SessionTTL / 2
	if interval <= 0 || interval > 5*time.Minute {
		interval = 5 * time.Minute
	}

	// Replicas sharing Redis sweep the page index one at a time; without Redis the lock is a no-op
	var redisClient *redis.Client
	if app.redisClient != nil {
		redisClient = app.redisClient.GetClient()
	}
	sweepLock := lock.NewRedisLock(redisClient, pageSweepLockKey, interval)

	manager.Register(newPageSweepJob(interval, sweeper, sweepLock))

	app.jobsManager = manager
	return nil
}

// pageSweepJob periodically removes expired form pages.
type pageSweepJob struct {
	interval        time.Duration
	sweeper         store.Sweeper
	distributedLock lock.Locker
}

func newPageSweepJob(interval time.Duration, sweeper store.Sweeper, l lock.Locker) jobs.Job {
	return &pageSweepJob{
		interval:        interval,
		sweeper:         sweeper,
		distributedLock: l,
	}
}

func (j *pageSweepJob) Name() string {
	return "page-sweep"
}

func (j *pageSweepJob) Interval() time.Duration {
	return j.interval
}

func (j *pageSweepJob) Run(ctx context.Context) error {
	if j.sweeper == nil {
		return fmt.Errorf("page store not configured")
	}

	// Try to acquire distributed lock
	if j.distributedLock != nil {
		acquired, err := j.distributedLock.TryLock(ctx)
		if err != nil || !acquired {
			logger.DebugCtx(ctx, "another instance is sweeping form pages, skipping this cycle")
			return nil
		}
		defer j.distributedLock.Unlock(ctx)
	}

	removed, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		logger.InfoCtx(ctx, "removed %d expired form pages", removed)
	}
	return nil
}
