package memstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cdlstats/internal/store"
)

func TestCreatePlayerIsKeyedByName(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.CreatePlayer(ctx, &store.Player{Name: "Shotzzy"})
	require.NoError(t, err)
	second, err := s.CreatePlayer(ctx, &store.Player{Name: "Shotzzy"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, s.Players(), 1)
}

func TestGetMissingRowsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetSeason(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetTeamByName(ctx, "OpTic Texas")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPlayerByName(ctx, "Dashy")
	assert.ErrorIs(t, err, store.ErrNotFound)
	err = s.UpdatePlayerProfile(ctx, &store.Player{Name: "Dashy"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedTeamsAssignsSlugs(t *testing.T) {
	s := New()
	s.SeedTeams("OpTic Texas", "OpTic Texas", "Free Agent")

	team, err := s.GetTeamByName(context.Background(), "OpTic Texas")
	require.NoError(t, err)
	assert.Equal(t, "optic-texas", team.Slug)

	fa, err := s.GetTeamByName(context.Background(), "Free Agent")
	require.NoError(t, err)
	assert.NotEqual(t, team.ID, fa.ID)
}

func TestCreateSeasonHonorsID(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.CreateSeason(ctx, 2, 2025, "Call of Duty League 2025")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	id, err = s.CreateSeason(ctx, 2, 2026, "ignored")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	season, err := s.GetSeason(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2025, season.Year, "existing season is not overwritten")

	next, err := s.CreateSeason(ctx, 0, 2026, "Call of Duty League 2026")
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	assert.Len(t, s.Seasons(), 2)
}

func TestUpsertsOverwriteInPlace(t *testing.T) {
	ctx := context.Background()
	s := New()
	seasonID, err := s.CreateSeason(ctx, 1, 2025, "Call of Duty League 2025")
	require.NoError(t, err)

	var seasonalID int
	for _, kd := range []float64{1.10, 1.25} {
		err := s.InTx(ctx, func(w store.StatsWriter) error {
			id, err := w.UpsertSeasonStats(ctx, &store.PlayerSeasonStats{
				PlayerID: 1,
				SeasonID: seasonID,
				KD:       sql.NullFloat64{Float64: kd, Valid: true},
			})
			if err != nil {
				return err
			}
			seasonalID = id
			return w.UpsertModeStats(ctx, &store.ModeStats{SeasonalID: id, Mode: store.ModeHardpoint})
		})
		require.NoError(t, err)
	}

	rows := s.SeasonStats()
	require.Len(t, rows, 1)
	assert.Equal(t, seasonalID, rows[0].ID)
	assert.InDelta(t, 1.25, rows[0].KD.Float64, 1e-9)
	assert.Equal(t, 1, s.ModeRowCount())
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	seasonID, err := s.CreateSeason(ctx, 1, 2025, "Call of Duty League 2025")
	require.NoError(t, err)

	boom := errors.New("disk full")
	s.FailModeUpserts(store.ModeControl, boom)

	err = s.InTx(ctx, func(w store.StatsWriter) error {
		id, err := w.UpsertSeasonStats(ctx, &store.PlayerSeasonStats{PlayerID: 1, SeasonID: seasonID})
		if err != nil {
			return err
		}
		for _, mode := range store.Modes {
			if err := w.UpsertModeStats(ctx, &store.ModeStats{SeasonalID: id, Mode: mode}); err != nil {
				return err
			}
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.SeasonStats())
	assert.Zero(t, s.ModeRowCount())
}

func TestUpsertSeasonStatsRequiresSeason(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InTx(ctx, func(w store.StatsWriter) error {
		_, err := w.UpsertSeasonStats(ctx, &store.PlayerSeasonStats{PlayerID: 1, SeasonID: 9})
		return err
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
