package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/cdlstats/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db DBTX
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetPlayerByName finds a player by exact name
func (r *PlayerRepository) GetPlayerByName(ctx context.Context, name string) (*store.Player, error) {
	query := `
		SELECT id, name, team_id, role, country, created_at, updated_at
		FROM players
		WHERE name = $1
	`

	player := &store.Player{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&player.ID, &player.Name, &player.TeamID, &player.Role,
		&player.Country, &player.CreatedAt, &player.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// CreatePlayer inserts a player. Name is the natural key; losing an insert
// race returns the row that won.
func (r *PlayerRepository) CreatePlayer(ctx context.Context, player *store.Player) (int, error) {
	query := `
		INSERT INTO players (name, team_id, role, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		player.Name, player.TeamID, player.Role, player.Country,
	).Scan(&player.ID)
	if isUniqueViolation(err) {
		existing, lookupErr := r.GetPlayerByName(ctx, player.Name)
		if lookupErr != nil {
			return 0, fmt.Errorf("inserting player: %w", err)
		}
		player.ID = existing.ID
		return existing.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("inserting player: %w", err)
	}

	return player.ID, nil
}

// UpdatePlayerProfile overwrites role, country and team for the named player
func (r *PlayerRepository) UpdatePlayerProfile(ctx context.Context, player *store.Player) error {
	query := `
		UPDATE players
		SET role = $2, country = $3, team_id = $4, updated_at = NOW()
		WHERE name = $1
	`

	res, err := r.db.ExecContext(ctx, query, player.Name, player.Role, player.Country, player.TeamID)
	if err != nil {
		return fmt.Errorf("updating player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %q: %w", player.Name, store.ErrNotFound)
	}

	return nil
}
