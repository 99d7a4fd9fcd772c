package statsync

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fortuna/cdlstats/internal/config"
	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
	"github.com/fortuna/cdlstats/internal/store"
)

// Event names published on the sync stream
const (
	EventPlayerSynced  = "player_synced"
	EventSyncCompleted = "sync_completed"
)

// RecordSource produces a scraped stats table
type RecordSource interface {
	Extract(ctx context.Context) (*breakingpoint.Extraction, error)
}

// EventPublisher fans sync events out to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Recorder receives run metrics
type Recorder interface {
	AddRowsScraped(n int)
	AddRowsSkipped(n int)
	IncPlayersSynced(created bool)
	ObserveRun(d time.Duration, err error)
}

// Options holds sync configuration
type Options struct {
	SeasonID int
	Season   SeasonDefaults
}

// DefaultOptions returns the current league season
func DefaultOptions() Options {
	return Options{
		SeasonID: 1,
		Season:   SeasonDefaults{Year: 2025, Title: "Call of Duty League 2025"},
	}
}

// RunResult summarizes one sync run. On failure it holds the progress made
// before the error.
type RunResult struct {
	SeasonID       int           `json:"season_id"`
	SeasonCreated  bool          `json:"season_created"`
	Scraped        int           `json:"scraped"`
	Skipped        int           `json:"skipped"`
	Synced         int           `json:"synced"`
	PlayersCreated int           `json:"players_created"`
	Duration       time.Duration `json:"duration"`
}

// Summary returns a one-line description of the run
func (r *RunResult) Summary() string {
	return fmt.Sprintf("season %d: %d scraped, %d skipped, %d synced (%d new players) in %s",
		r.SeasonID, r.Scraped, r.Skipped, r.Synced, r.PlayersCreated, r.Duration.Round(time.Millisecond))
}

// PlayerSyncedEvent is published after each player's stats commit
type PlayerSyncedEvent struct {
	PlayerID   int     `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamName   string  `json:"team_name"`
	SeasonID   int     `json:"season_id"`
	SeasonalID int     `json:"bp_seasonal_id"`
	KD         float64 `json:"kd,omitempty"`
}

// Syncer runs the scrape, resolve and upsert pipeline
type Syncer struct {
	source   RecordSource
	resolver *Resolver
	engine   *Engine
	opts     Options
	logger   *log.Logger

	reporter  Reporter
	publisher EventPublisher
	recorder  Recorder
	now       func() time.Time
}

// SyncerOption customizes a Syncer
type SyncerOption func(*Syncer)

// WithReporter replaces the default logging reporter
func WithReporter(r Reporter) SyncerOption {
	return func(s *Syncer) { s.reporter = r }
}

// WithPublisher publishes sync events
func WithPublisher(p EventPublisher) SyncerOption {
	return func(s *Syncer) { s.publisher = p }
}

// WithRecorder records run metrics
func WithRecorder(r Recorder) SyncerOption {
	return func(s *Syncer) { s.recorder = r }
}

// NewSyncer wires a sync run against st
func NewSyncer(source RecordSource, st store.Store, teams config.TeamMap, opts Options, logger *log.Logger, options ...SyncerOption) *Syncer {
	if logger == nil {
		logger = log.Default()
	}
	s := &Syncer{
		source:   source,
		resolver: NewResolver(st, teams, opts.Season, logger),
		engine:   NewEngine(st),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
	s.reporter = NewLogReporter(logger)
	for _, o := range options {
		o(s)
	}
	return s
}

// Run scrapes the stats table and writes every record in table order. The
// first error stops the run; players already written stay committed.
func (s *Syncer) Run(ctx context.Context) (result *RunResult, err error) {
	start := s.now()
	result = &RunResult{}

	defer func() {
		result.Duration = s.now().Sub(start)
		if s.recorder != nil {
			s.recorder.ObserveRun(result.Duration, err)
		}
		if err != nil {
			s.reporter.OnRunError(err)
			return
		}
		s.publish(ctx, EventSyncCompleted, result)
		s.reporter.OnRunComplete(result)
	}()

	extraction, err := s.source.Extract(ctx)
	if err != nil {
		return result, fmt.Errorf("scraping stats: %w", err)
	}

	records := extraction.Records()
	skipped := extraction.Skipped()
	result.Scraped = len(records)
	result.Skipped = len(skipped)
	if s.recorder != nil {
		s.recorder.AddRowsScraped(len(records))
		s.recorder.AddRowsSkipped(len(skipped))
	}

	cache := NewRefCache()
	seasonID, created, err := s.resolver.ResolveSeason(ctx, cache, s.opts.SeasonID)
	if err != nil {
		return result, err
	}
	result.SeasonID = seasonID
	result.SeasonCreated = created

	s.reporter.OnRunStart(seasonID, len(records))
	for _, row := range skipped {
		s.reporter.OnRowSkipped(row)
	}

	if len(records) == 0 {
		s.logger.Warn("No records scraped; nothing to sync", "season_id", seasonID, "season_created", created)
		return result, nil
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec := &records[i]
		event, playerCreated, err := s.syncRecord(ctx, cache, seasonID, rec)
		if err != nil {
			return result, err
		}

		result.Synced++
		if playerCreated {
			result.PlayersCreated++
		}
		if s.recorder != nil {
			s.recorder.IncPlayersSynced(playerCreated)
		}

		s.reporter.OnRecordSynced(i+1, len(records), event)
		s.publish(ctx, EventPlayerSynced, event)
	}

	return result, nil
}

func (s *Syncer) syncRecord(ctx context.Context, cache *RefCache, seasonID int, rec *breakingpoint.RawStatRecord) (*PlayerSyncedEvent, bool, error) {
	teamID, teamName, err := s.resolver.ResolveTeam(ctx, cache, rec.PlayerName)
	if err != nil {
		return nil, false, err
	}

	playerID, created, err := s.resolver.ResolvePlayer(ctx, cache, rec.PlayerName, teamID)
	if err != nil {
		return nil, false, err
	}

	seasonalID, err := s.engine.WritePlayerStats(ctx, playerID, seasonID, rec)
	if err != nil {
		return nil, false, err
	}

	return &PlayerSyncedEvent{
		PlayerID:   playerID,
		PlayerName: rec.PlayerName,
		TeamName:   teamName,
		SeasonID:   seasonID,
		SeasonalID: seasonalID,
		KD:         rec.KD.Float64,
	}, created, nil
}

// publish never fails the run
func (s *Syncer) publish(ctx context.Context, event string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("Failed to publish event", "event", event, "err", err)
	}
}
