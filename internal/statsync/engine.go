package statsync

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
	"github.com/fortuna/cdlstats/internal/store"
)

// Engine writes one player's seasonal and per-mode stats
type Engine struct {
	stats store.StatsStore
}

// NewEngine creates an engine writing through stats
func NewEngine(stats store.StatsStore) *Engine {
	return &Engine{stats: stats}
}

// WritePlayerStats upserts the seasonal row and its three mode rows in one
// transaction and returns the seasonal row id.
func (e *Engine) WritePlayerStats(ctx context.Context, playerID, seasonID int, rec *breakingpoint.RawStatRecord) (int, error) {
	var seasonalID int

	err := e.stats.InTx(ctx, func(w store.StatsWriter) error {
		id, err := w.UpsertSeasonStats(ctx, SeasonStatsRow(playerID, seasonID, rec))
		if err != nil {
			return datastoreErr(fmt.Sprintf("upsert season stats for %q", rec.PlayerName), err)
		}

		for _, row := range ModeRows(id, rec) {
			row := row
			if err := w.UpsertModeStats(ctx, &row); err != nil {
				return datastoreErr(fmt.Sprintf("upsert %s stats for %q", row.Mode, rec.PlayerName), err)
			}
		}

		seasonalID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	return seasonalID, nil
}

// SeasonStatsRow builds the seasonal aggregate row for rec
func SeasonStatsRow(playerID, seasonID int, rec *breakingpoint.RawStatRecord) *store.PlayerSeasonStats {
	return &store.PlayerSeasonStats{
		PlayerID:              playerID,
		SeasonID:              seasonID,
		Rank:                  rec.RankNumber(),
		KD:                    rec.KD,
		OverallRating:         rec.OverallRating,
		SlayerRating:          rec.SlayerRating,
		TrueEngagementSuccess: rec.TrueEngagementSuccess,
		GameTimeMinutes:       rec.GameTimeMinutes,
		NonTradedKills:        rec.NonTradedKills,
	}
}

// ModeRows builds the Hardpoint, Search & Destroy and Control rows for rec.
// Fields a mode does not track stay NULL.
func ModeRows(seasonalID int, rec *breakingpoint.RawStatRecord) []store.ModeStats {
	return []store.ModeStats{
		{
			SeasonalID:          seasonalID,
			Mode:                store.ModeHardpoint,
			KD:                  rec.HPKD,
			KillsPer10Min:       rec.HPKillsPer10Min,
			DamagePer10Min:      rec.HPDamagePer10Min,
			EngagementsPer10Min: rec.HPEngagementsPer10Min,
			MapsPlayed:          rec.HPMapsPlayed,
			ObjPer10Min:         rec.HPObjPer10Min,
		},
		{
			SeasonalID:       seasonalID,
			Mode:             store.ModeSearchDestroy,
			KD:               rec.SNDKD,
			KillsPerRound:    rec.SNDKillsPerRound,
			FirstBloods:      rec.FirstBloods,
			FirstDeaths:      rec.FirstDeaths,
			OPDWinPercentage: rec.OPDWinPercentage,
			Plants:           rec.Plants,
			Defuses:          rec.Defuses,
			MapsPlayed:       rec.SNDMapsPlayed,
		},
		{
			SeasonalID:          seasonalID,
			Mode:                store.ModeControl,
			KD:                  rec.CTLKD,
			KillsPer10Min:       rec.CTLKillsPer10Min,
			DamagePer10Min:      rec.CTLDamagePer10Min,
			EngagementsPer10Min: rec.CTLEngagementsPer10Min,
			ZoneTierCaptures:    rec.ZoneTierCaptures,
			MapsPlayed:          rec.CTLMapsPlayed,
		},
	}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
