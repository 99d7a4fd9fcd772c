package statsync

import (
	"github.com/charmbracelet/log"

	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
)

// Reporter receives lifecycle callbacks from the syncer.
type Reporter interface {
	OnRunStart(seasonID int, records int)
	OnRowSkipped(row breakingpoint.SkippedRow)
	OnRecordSynced(index int, total int, event *PlayerSyncedEvent)
	OnRunComplete(result *RunResult)
	OnRunError(err error)
}

// LogReporter writes progress lines to a logger
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter creates a reporter writing to logger
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// OnRunStart logs the number of records and the target season
func (r *LogReporter) OnRunStart(seasonID int, records int) {
	r.logger.Infof("Syncing %d players into season %d", records, seasonID)
}

// OnRowSkipped warns about a row that produced no record
func (r *LogReporter) OnRowSkipped(row breakingpoint.SkippedRow) {
	r.logger.Warn("⚠️  Skipped table row", "row", row.Index, "cells", row.Cells, "reason", row.Reason)
}

// OnRecordSynced logs one committed player
func (r *LogReporter) OnRecordSynced(index int, total int, event *PlayerSyncedEvent) {
	r.logger.Infof("  ✓ [%d/%d] %s → %s (player_id=%d, bp_seasonal_id=%d)",
		index, total, event.PlayerName, event.TeamName, event.PlayerID, event.SeasonalID)
}

// OnRunComplete logs the run summary
func (r *LogReporter) OnRunComplete(result *RunResult) {
	r.logger.Infof("✓ Sync complete: %s", result.Summary())
}

// OnRunError logs the error that stopped the run
func (r *LogReporter) OnRunError(err error) {
	r.logger.Error("✗ Sync failed", "err", err)
}
