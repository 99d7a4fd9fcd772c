package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/fortuna/cdlstats/internal/store"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repositories bundles the Postgres repositories behind store.Store.
type Repositories struct {
	*SeasonRepository
	*TeamRepository
	*PlayerRepository
	*StatsRepository

	db *store.Database
}

var _ store.Store = (*Repositories)(nil)

// New wires every repository against the shared connection pool.
func New(db *store.Database) *Repositories {
	conn := db.DB()
	return &Repositories{
		SeasonRepository: NewSeasonRepository(conn),
		TeamRepository:   NewTeamRepository(conn),
		PlayerRepository: NewPlayerRepository(conn),
		StatsRepository:  NewStatsRepository(conn),
		db:               db,
	}
}

// InTx runs fn with a StatsWriter bound to a single transaction.
func (r *Repositories) InTx(ctx context.Context, fn func(w store.StatsWriter) error) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		return fn(NewStatsRepository(tx))
	})
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
