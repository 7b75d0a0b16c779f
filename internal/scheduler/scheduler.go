package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-co-op/gocron/v2"
)

// taskFn returns a short status such as "success" or "skipped - outside window".
type taskFn func(ctx context.Context) (string, error)

type RetryPolicy struct {
	Count int
	Delay time.Duration
}

type Scheduler struct {
	scheduler gocron.Scheduler
	retry     RetryPolicy
}

func New(loc *time.Location, retry RetryPolicy) *Scheduler {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{scheduler: scheduler, retry: retry}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	_ = s.scheduler.Shutdown()
}

func (s *Scheduler) createJob(jobDefinition gocron.JobDefinition, name string, fn taskFn, startImmediately bool) {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}

	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(
		jobDefinition,
		gocron.NewTask(s.taskWithRecover(fn, name)),
		opts...,
	)

	if err != nil {
		slog.Error("Scheduler creating job error", slog.String("jobName", name))
		panic(err.Error())
	}
}

func (s *Scheduler) NewIntervalJob(name string, fn taskFn, interval time.Duration, startImmediately bool) {
	s.createJob(gocron.DurationJob(interval), name, fn, startImmediately)
}

// NewCrontabJob takes a five-field crontab evaluated in the scheduler location.
func (s *Scheduler) NewCrontabJob(name string, fn taskFn, crontab string, startImmediately bool) {
	s.createJob(gocron.CronJob(crontab, false), name, fn, startImmediately)
}

func (s *Scheduler) taskWithRecover(fn taskFn, jobName string) func(ctx context.Context) {
	return func(ctx context.Context) {
		ctx = utils.WithRequestID(ctx)
		rqID := utils.GetRequestIDFromCtx(ctx)

		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"Panic recovered in scheduler job",
					slog.String("rqID", rqID),
					slog.String("jobName", jobName),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		slog.Info("job start", slog.String("rqID", rqID), slog.String("jobName", jobName))

		start := time.Now()
		status, err := s.runWithRetry(ctx, jobName, fn)
		if err != nil {
			slog.Error("job failed", slog.String("rqID", rqID), slog.String("jobName", jobName), slog.Any("error", err))
		} else {
			slog.Info(
				"job completed",
				slog.String("rqID", rqID),
				slog.String("jobName", jobName),
				slog.String("status", status),
				slog.Duration("duration", time.Since(start)),
			)
		}
	}
}

// runWithRetry repeats a failed run with a constant delay; a failed run has rolled back its transaction.
func (s *Scheduler) runWithRetry(ctx context.Context, jobName string, fn taskFn) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	var status string
	operation := func() error {
		var err error
		status, err = fn(ctx)
		return err
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(s.retry.Delay)
	b = backoff.WithMaxRetries(b, uint64(max(s.retry.Count, 0)))
	b = backoff.WithContext(b, ctx)

	notify := func(err error, next time.Duration) {
		slog.Warn(
			"job attempt failed, retrying",
			slog.String("rqID", rqID),
			slog.String("jobName", jobName),
			slog.String("err", err.Error()),
			slog.Duration("retryIn", next),
		)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return "", err
	}
	return status, nil
}
