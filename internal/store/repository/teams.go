package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/cdlstats/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db DBTX
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db DBTX) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetTeamByName finds a team by exact name
func (r *TeamRepository) GetTeamByName(ctx context.Context, name string) (*store.Team, error) {
	query := `
		SELECT id, team_name, team_location, short_name, slug, created_at, updated_at
		FROM team
		WHERE team_name = $1
	`

	team := &store.Team{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&team.ID, &team.TeamName, &team.TeamLocation, &team.ShortName,
		&team.Slug, &team.CreatedAt, &team.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// CreateTeam inserts a team. A concurrent insert of the same name resolves
// to the existing row.
func (r *TeamRepository) CreateTeam(ctx context.Context, team *store.Team) (int, error) {
	query := `
		INSERT INTO team (team_name, team_location, short_name, slug)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		team.TeamName, team.TeamLocation, team.ShortName, team.Slug,
	).Scan(&team.ID)
	if isUniqueViolation(err) {
		existing, lookupErr := r.GetTeamByName(ctx, team.TeamName)
		if lookupErr != nil {
			return 0, fmt.Errorf("inserting team: %w", err)
		}
		team.ID = existing.ID
		return existing.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("inserting team: %w", err)
	}

	return team.ID, nil
}
