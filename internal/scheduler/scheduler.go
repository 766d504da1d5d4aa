package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
	"github.com/Viacheslav828206/WeatherBot/internal/metrics"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
)

var (
	ErrInvalidTime     = errors.New("hour or minute out of range")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// JobSpec describes an installed notification job.
type JobSpec struct {
	Hour   int
	Minute int
	TZ     string
}

type job struct {
	entry cron.EntryID
	spec  JobSpec
}

// Scheduler holds at most one daily recurring job per chat. Each job fires at
// a fixed wall-clock time in its own IANA timezone, so DST shifts follow the
// zone's rules rather than a fixed UTC offset.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger

	mu   sync.Mutex
	jobs map[int64]job
}

// New creates a stopped Scheduler; call Start after reconciliation.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
		jobs: make(map[int64]job),
	}
}

// Start launches the cron run loop.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops firing new jobs. The returned context is done once in-flight
// callbacks have completed.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Schedule installs or replaces the daily job for chatID. Out-of-range time
// components and unknown timezones are rejected up front, never coerced.
// Replacing is atomic from the caller's point of view: the job table always
// maps chatID to exactly one entry.
func (s *Scheduler) Schedule(chatID int64, hour, minute int, tz string, fn func()) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	if _, err := domain.ValidateTZ(tz); err != nil || tz == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}

	// One panicking firing must not take down the cron loop or the job.
	wrapped := func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("notification firing panicked",
					zap.Int64("chatID", chatID), zap.Any("panic", rec))
			}
		}()
		fn()
	}

	spec := fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz, minute, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, wrapped)
	if err != nil {
		// Validation above makes this unreachable for well-formed input;
		// the previous job, if any, stays installed.
		return fmt.Errorf("add cron entry: %w", err)
	}
	if old, ok := s.jobs[chatID]; ok {
		s.cron.Remove(old.entry)
	}
	s.jobs[chatID] = job{entry: id, spec: JobSpec{Hour: hour, Minute: minute, TZ: tz}}
	metrics.ActiveJobs.Set(float64(len(s.jobs)))
	return nil
}

// Cancel removes the job for chatID if present; no-op otherwise.
func (s *Scheduler) Cancel(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[chatID]; ok {
		s.cron.Remove(j.entry)
		delete(s.jobs, chatID)
		metrics.ActiveJobs.Set(float64(len(s.jobs)))
	}
}

// Count returns the number of installed jobs.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Jobs returns a snapshot of the installed jobs keyed by chat id.
func (s *Scheduler) Jobs() map[int64]JobSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]JobSpec, len(s.jobs))
	for id, j := range s.jobs {
		out[id] = j.spec
	}
	return out
}

// Reconcile rebuilds the job table from persisted profiles. It runs once at
// process start, before any user-driven schedule change is accepted; without
// it every schedule would vanish on restart, since only the store is durable.
// Profiles carrying a notification time but no timezone should not exist, but
// are skipped and logged rather than assumed impossible.
func (s *Scheduler) Reconcile(ctx context.Context, repo store.Repo, deliver func(chatID int64)) error {
	users, err := repo.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	for _, u := range users {
		if u.TZ == "" {
			s.log.Warn("profile has notification time but no timezone, skipping",
				zap.Int64("chatID", u.ChatID))
			continue
		}
		hour, minute := domain.SplitMinutes(*u.NotifyAtM)
		chatID := u.ChatID
		if err := s.Schedule(chatID, hour, minute, u.TZ, func() { deliver(chatID) }); err != nil {
			s.log.Warn("could not restore notification job",
				zap.Int64("chatID", chatID), zap.Error(err))
		}
	}

	s.log.Info("notification jobs restored", zap.Int("count", s.Count()))
	return nil
}
