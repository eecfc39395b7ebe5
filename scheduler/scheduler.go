// Package scheduler runs recurring jobs on cron schedules with graceful shutdown.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultShutdownTimeout bounds how long Run waits for in-flight jobs after ctx is done.
const DefaultShutdownTimeout = 30 * time.Second

// ErrShutdownTimeout is returned by Run when jobs are still running after the timeout.
var ErrShutdownTimeout = errors.New("scheduler: jobs still running after shutdown timeout")

// Job is a named recurring task. Spec accepts standard five-field cron
// expressions and descriptors such as "@daily" or "@every 24h".
type Job struct {
	Name       string
	Spec       string
	RunOnStart bool
	Run        func(ctx context.Context)
}

type entry struct {
	job      Job
	schedule cron.Schedule
	id       cron.EntryID
}

// Scheduler owns a cron runner. Jobs of the same entry never overlap.
type Scheduler struct {
	ShutdownTimeout time.Duration
	Location        *time.Location

	mu      sync.Mutex
	entries []*entry
	cron    *cron.Cron
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{ShutdownTimeout: DefaultShutdownTimeout}
}

// Add registers a job. The spec is parsed immediately so bad schedules fail at startup.
func (s *Scheduler) Add(j Job) error {
	if j.Run == nil {
		return fmt.Errorf("job %q has no run function", j.Name)
	}
	sched, err := cron.ParseStandard(j.Spec)
	if err != nil {
		return fmt.Errorf("job %q: parse schedule %q: %w", j.Name, j.Spec, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("job %q: scheduler already running", j.Name)
	}
	s.entries = append(s.entries, &entry{job: j, schedule: sched})
	return nil
}

// Run starts all jobs and blocks until ctx is done, then waits up to
// ShutdownTimeout for running jobs to return. Jobs receive ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := slog.Default().With(slog.String("component", "scheduler"))
	cl := cronLogger{l: logger}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return errors.New("scheduler already running")
	}
	var startWG sync.WaitGroup
	for _, e := range s.entries {
		job := e.job
		e.id = c.Schedule(e.schedule, cron.FuncJob(func() { job.Run(ctx) }))
		if job.RunOnStart {
			// The wrapped job shares the skip guard with scheduled runs.
			wrapped := c.Entry(e.id).WrappedJob
			startWG.Add(1)
			go func() {
				defer startWG.Done()
				wrapped.Run()
			}()
		}
		logger.Info("job scheduled",
			slog.String("job", job.Name),
			slog.String("spec", job.Spec),
			slog.Bool("run_on_start", job.RunOnStart),
			slog.Time("next", e.schedule.Next(time.Now().In(loc))))
	}
	s.cron = c
	s.mu.Unlock()

	c.Start()
	<-ctx.Done()
	logger.Info("scheduler stopping")

	stopped := c.Stop()
	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		startWG.Wait()
		close(done)
	}()

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	select {
	case <-done:
		logger.Info("scheduler stopped")
		return nil
	case <-time.After(timeout):
		logger.Warn("scheduler shutdown timed out", slog.Duration("timeout", timeout))
		return ErrShutdownTimeout
	}
}

// Next reports the next scheduled run of the named job. It returns false
// before Run has started or when the job is unknown.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}, false
	}
	for _, e := range s.entries {
		if e.job.Name == name {
			next := s.cron.Entry(e.id).Next
			return next, !next.IsZero()
		}
	}
	return time.Time{}, false
}

// cronLogger adapts slog to cron.Logger. Cron's info output (wake, run) is debug noise here.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "err", err)...)
}
