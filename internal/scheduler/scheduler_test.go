package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestScheduler(task Task, cfg *Config) *Scheduler {
	s := New(task, cfg, log.New(io.Discard))
	s.after = immediate
	return s
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before slot", time.Date(2025, 3, 1, 1, 30, 0, 0, loc), time.Date(2025, 3, 1, 3, 0, 0, 0, loc)},
		{"exactly at slot", time.Date(2025, 3, 1, 3, 0, 0, 0, loc), time.Date(2025, 3, 1, 3, 0, 0, 0, loc)},
		{"after slot", time.Date(2025, 3, 1, 9, 0, 0, 0, loc), time.Date(2025, 3, 2, 3, 0, 0, 0, loc)},
		{"month rollover", time.Date(2025, 3, 31, 23, 0, 0, 0, loc), time.Date(2025, 4, 1, 3, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextRun(tt.now, 3))
		})
	}
}

func TestRunWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	s := newTestScheduler(func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("stats table did not render")
		}
		return nil
	}, &Config{MaxRetries: 3, RetryDelay: time.Minute})

	s.runWithRetry(context.Background())
	assert.Equal(t, 2, calls)
}

func TestRunWithRetryGivesUp(t *testing.T) {
	calls := 0
	s := newTestScheduler(func(context.Context) error {
		calls++
		return errors.New("database unavailable")
	}, &Config{MaxRetries: 3, RetryDelay: time.Minute})

	s.runWithRetry(context.Background())
	assert.Equal(t, 3, calls)
}

func TestRunWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	s := New(func(context.Context) error {
		calls++
		cancel()
		return errors.New("interrupted")
	}, &Config{MaxRetries: 5, RetryDelay: time.Hour}, log.New(io.Discard))

	s.runWithRetry(ctx)
	assert.Equal(t, 1, calls)
}

func TestStartRunsOnStartAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	s := New(func(context.Context) error {
		runs++
		cancel()
		return nil
	}, &Config{DailyHour: 3, RunOnStart: true, MaxRetries: 1}, log.New(io.Discard))
	s.after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "scheduler did not stop after cancellation")
	}
	assert.Equal(t, 1, runs)
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(func(context.Context) error { return nil }, nil, nil)
	assert.Equal(t, 3, s.config.DailyHour)
	assert.Equal(t, 3, s.config.MaxRetries)

	s = New(func(context.Context) error { return nil }, &Config{}, nil)
	assert.Equal(t, 1, s.config.MaxRetries)
}
