package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/cdlstats/internal/store"
)

// SeasonRepository handles season data access
type SeasonRepository struct {
	db DBTX
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db DBTX) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// GetSeason finds a season by ID
func (r *SeasonRepository) GetSeason(ctx context.Context, id int) (*store.Season, error) {
	query := `SELECT id, year, title, created_at FROM season WHERE id = $1`

	season := &store.Season{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&season.ID, &season.Year, &season.Title, &season.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("season %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying season: %w", err)
	}

	return season, nil
}

// CreateSeason inserts a season under an explicit ID so a configured
// SEASON_ID keeps pointing at the same row on every run. The SERIAL sequence
// is moved past the new row afterwards.
func (r *SeasonRepository) CreateSeason(ctx context.Context, id, year int, title string) (int, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO season (id, year, title) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		id, year, title,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting season %d: %w", id, err)
	}

	_, err = r.db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('season', 'id'), (SELECT MAX(id) FROM season))`,
	)
	if err != nil {
		return 0, fmt.Errorf("advancing season sequence: %w", err)
	}

	return id, nil
}
