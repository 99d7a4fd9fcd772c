package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/cdlstats/internal/store"
)

// StatsRepository handles seasonal and per-mode stats writes
type StatsRepository struct {
	db DBTX
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// UpsertSeasonStats inserts or overwrites the seasonal row for
// (player_id, season_id) and returns its ID. Last write wins on every field.
func (r *StatsRepository) UpsertSeasonStats(ctx context.Context, stats *store.PlayerSeasonStats) (int, error) {
	query := `
		INSERT INTO player_season_stats (
			player_id, season_id, player_rank, kd, overall_rating, slayer_rating,
			true_engagement_success, game_time_minutes, non_traded_kills
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, season_id) DO UPDATE SET
			player_rank = EXCLUDED.player_rank,
			kd = EXCLUDED.kd,
			overall_rating = EXCLUDED.overall_rating,
			slayer_rating = EXCLUDED.slayer_rating,
			true_engagement_success = EXCLUDED.true_engagement_success,
			game_time_minutes = EXCLUDED.game_time_minutes,
			non_traded_kills = EXCLUDED.non_traded_kills,
			updated_at = NOW()
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		stats.PlayerID, stats.SeasonID, stats.Rank, stats.KD, stats.OverallRating,
		stats.SlayerRating, stats.TrueEngagementSuccess, stats.GameTimeMinutes, stats.NonTradedKills,
	).Scan(&stats.ID)

	if err != nil {
		return 0, fmt.Errorf("upserting season stats: %w", err)
	}

	return stats.ID, nil
}

// UpsertModeStats inserts or overwrites the mode row for (bp_seasonal_id, mode)
func (r *StatsRepository) UpsertModeStats(ctx context.Context, stats *store.ModeStats) error {
	query := `
		INSERT INTO bp_mode_stats (
			bp_seasonal_id, mode, kd, kills_per_10_min, damage_per_10_min,
			engagements_per_10_min, maps_played, obj_per_10_min,
			zone_tier_captures, kills_per_round, first_bloods,
			first_deaths, opd_win_percentage, plants, defuses
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (bp_seasonal_id, mode) DO UPDATE SET
			kd = EXCLUDED.kd,
			kills_per_10_min = EXCLUDED.kills_per_10_min,
			damage_per_10_min = EXCLUDED.damage_per_10_min,
			engagements_per_10_min = EXCLUDED.engagements_per_10_min,
			maps_played = EXCLUDED.maps_played,
			obj_per_10_min = EXCLUDED.obj_per_10_min,
			zone_tier_captures = EXCLUDED.zone_tier_captures,
			kills_per_round = EXCLUDED.kills_per_round,
			first_bloods = EXCLUDED.first_bloods,
			first_deaths = EXCLUDED.first_deaths,
			opd_win_percentage = EXCLUDED.opd_win_percentage,
			plants = EXCLUDED.plants,
			defuses = EXCLUDED.defuses,
			updated_at = NOW()
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		stats.SeasonalID, string(stats.Mode), stats.KD, stats.KillsPer10Min, stats.DamagePer10Min,
		stats.EngagementsPer10Min, stats.MapsPlayed, stats.ObjPer10Min,
		stats.ZoneTierCaptures, stats.KillsPerRound, stats.FirstBloods,
		stats.FirstDeaths, stats.OPDWinPercentage, stats.Plants, stats.Defuses,
	).Scan(&stats.ID)

	if err != nil {
		return fmt.Errorf("upserting %s mode stats: %w", stats.Mode, err)
	}

	return nil
}
