package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no row matches the natural key.
var ErrNotFound = errors.New("not found")

// SeasonStore reads and creates seasons.
type SeasonStore interface {
	GetSeason(ctx context.Context, id int) (*Season, error)
	// CreateSeason inserts the season under id and returns id. An existing
	// season with that id is left as is.
	CreateSeason(ctx context.Context, id, year int, title string) (int, error)
}

// TeamStore reads teams by exact name. CreateTeam is only used by the roster sync.
type TeamStore interface {
	GetTeamByName(ctx context.Context, name string) (*Team, error)
	CreateTeam(ctx context.Context, team *Team) (int, error)
}

// PlayerStore reads and writes players keyed by name.
type PlayerStore interface {
	GetPlayerByName(ctx context.Context, name string) (*Player, error)
	CreatePlayer(ctx context.Context, player *Player) (int, error)
	UpdatePlayerProfile(ctx context.Context, player *Player) error
}

// StatsWriter performs the natural-key upserts for one player.
type StatsWriter interface {
	UpsertSeasonStats(ctx context.Context, stats *PlayerSeasonStats) (int, error)
	UpsertModeStats(ctx context.Context, stats *ModeStats) error
}

// StatsStore scopes a group of stats writes to a single transaction.
type StatsStore interface {
	InTx(ctx context.Context, fn func(w StatsWriter) error) error
}

// Store bundles every store used by a sync run.
type Store interface {
	SeasonStore
	TeamStore
	PlayerStore
	StatsStore
}
