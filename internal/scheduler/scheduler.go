package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Task is one scheduled unit of work, typically a full stats sync
type Task func(ctx context.Context) error

// Config holds scheduler configuration
type Config struct {
	DailyHour  int           // Default: 3 (3 AM)
	RunOnStart bool          // Default: false
	MaxRetries int           // Default: 3
	RetryDelay time.Duration // Default: 5m
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		DailyHour:  3,
		MaxRetries: 3,
		RetryDelay: 5 * time.Minute,
	}
}

// Scheduler runs a task once a day at a fixed local hour
type Scheduler struct {
	task   Task
	config *Config
	logger *log.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New creates a scheduler for task
func New(task Task, config *Config, logger *log.Logger) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		task:   task,
		config: config,
		logger: logger,
		now:    time.Now,
		after:  time.After,
	}
}

// Start blocks, running the task daily until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Infof("→ Daily sync scheduler started (runs at %02d:00 daily)", s.config.DailyHour)

	if s.config.RunOnStart {
		s.runWithRetry(ctx)
	}

	for {
		nextRun := NextRun(s.now(), s.config.DailyHour)
		wait := nextRun.Sub(s.now())
		s.logger.Infof("  Next sync: %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), wait.Round(time.Second))

		select {
		case <-ctx.Done():
			s.logger.Info("→ Daily sync scheduler stopped")
			return
		case <-s.after(wait):
			s.runWithRetry(ctx)
		}
	}
}

// runWithRetry runs the task up to MaxRetries times, stopping at the first success
func (s *Scheduler) runWithRetry(ctx context.Context) {
	start := s.now()

	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		err := s.task(ctx)
		if err == nil {
			s.logger.Infof("✓ Scheduled sync complete in %v", s.now().Sub(start).Round(time.Second))
			return
		}

		s.logger.Warn("⚠️  Sync attempt failed", "attempt", attempt, "max", s.config.MaxRetries, "err", err)

		if attempt < s.config.MaxRetries {
			s.logger.Infof("  Retrying in %v...", s.config.RetryDelay)
			select {
			case <-ctx.Done():
				return
			case <-s.after(s.config.RetryDelay):
			}
		}
	}

	s.logger.Errorf("❌ All %d sync attempts failed", s.config.MaxRetries)
}

// NextRun returns the first time at or after now whose local hour is hour.
// If today's slot has passed, the slot is tomorrow.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
