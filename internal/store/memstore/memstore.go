// Package memstore is an in-memory store.Store used for dry runs and tests.
// It enforces the same natural keys as the Postgres schema.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"github.com/fortuna/cdlstats/internal/store"
)

type seasonalKey struct {
	playerID int
	seasonID int
}

type modeKey struct {
	seasonalID int
	mode       store.Mode
}

type state struct {
	seasons  map[int]store.Season
	teams    map[string]store.Team
	players  map[string]store.Player
	seasonal map[seasonalKey]store.PlayerSeasonStats
	modes    map[modeKey]store.ModeStats
	nextID   map[string]int
}

func newState() state {
	return state{
		seasons:  make(map[int]store.Season),
		teams:    make(map[string]store.Team),
		players:  make(map[string]store.Player),
		seasonal: make(map[seasonalKey]store.PlayerSeasonStats),
		modes:    make(map[modeKey]store.ModeStats),
		nextID:   make(map[string]int),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.seasons {
		c.seasons[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.seasonal {
		c.seasonal[k] = v
	}
	for k, v := range s.modes {
		c.modes[k] = v
	}
	for k, v := range s.nextID {
		c.nextID[k] = v
	}
	return c
}

func (s state) id(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

// Store is a mutex-guarded in-memory implementation of store.Store.
type Store struct {
	mu    sync.Mutex
	state state

	modeFaults map[store.Mode]error
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		state:      newState(),
		modeFaults: make(map[store.Mode]error),
	}
}

// SeedTeams inserts the named teams, skipping any that already exist.
func (s *Store) SeedTeams(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.state.teams[name]; ok {
			continue
		}
		now := time.Now()
		s.state.teams[name] = store.Team{
			ID:        s.state.id("team"),
			TeamName:  name,
			Slug:      slug.Make(name),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
}

// FailModeUpserts makes every subsequent UpsertModeStats for mode return err.
// Passing a nil err clears the fault.
func (s *Store) FailModeUpserts(mode store.Mode, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.modeFaults, mode)
		return
	}
	s.modeFaults[mode] = err
}

// GetSeason returns the season with id or store.ErrNotFound.
func (s *Store) GetSeason(_ context.Context, id int) (*store.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.state.seasons[id]
	if !ok {
		return nil, fmt.Errorf("season %d: %w", id, store.ErrNotFound)
	}
	return &season, nil
}

// CreateSeason inserts the season under id unless it already exists.
// A non-positive id takes the next generated one.
func (s *Store) CreateSeason(_ context.Context, id, year int, title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 {
		id = s.state.id("season")
	}
	if _, ok := s.state.seasons[id]; ok {
		return id, nil
	}
	if id > s.state.nextID["season"] {
		s.state.nextID["season"] = id
	}
	s.state.seasons[id] = store.Season{ID: id, Year: year, Title: title, CreatedAt: time.Now()}
	return id, nil
}

// GetTeamByName returns the team with the exact name or store.ErrNotFound.
func (s *Store) GetTeamByName(_ context.Context, name string) (*store.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.state.teams[name]
	if !ok {
		return nil, fmt.Errorf("team %q: %w", name, store.ErrNotFound)
	}
	return &team, nil
}

// CreateTeam inserts team, or returns the ID of the team already holding its name.
func (s *Store) CreateTeam(_ context.Context, team *store.Team) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.state.teams[team.TeamName]; ok {
		team.ID = existing.ID
		return existing.ID, nil
	}
	now := time.Now()
	row := *team
	row.ID = s.state.id("team")
	row.CreatedAt, row.UpdatedAt = now, now
	s.state.teams[row.TeamName] = row
	team.ID = row.ID
	return row.ID, nil
}

// GetPlayerByName returns the player with the exact name or store.ErrNotFound.
func (s *Store) GetPlayerByName(_ context.Context, name string) (*store.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.state.players[name]
	if !ok {
		return nil, fmt.Errorf("player %q: %w", name, store.ErrNotFound)
	}
	return &player, nil
}

// CreatePlayer inserts player, or returns the ID of the player already holding its name.
func (s *Store) CreatePlayer(_ context.Context, player *store.Player) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.state.players[player.Name]; ok {
		player.ID = existing.ID
		return existing.ID, nil
	}
	now := time.Now()
	row := *player
	row.ID = s.state.id("players")
	row.CreatedAt, row.UpdatedAt = now, now
	s.state.players[row.Name] = row
	player.ID = row.ID
	return row.ID, nil
}

// UpdatePlayerProfile overwrites role, country and team of an existing player.
func (s *Store) UpdatePlayerProfile(_ context.Context, player *store.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.state.players[player.Name]
	if !ok {
		return fmt.Errorf("player %q: %w", player.Name, store.ErrNotFound)
	}
	row.Role = player.Role
	row.Country = player.Country
	row.TeamID = player.TeamID
	row.UpdatedAt = time.Now()
	s.state.players[row.Name] = row
	return nil
}

// InTx holds the store lock for the duration of fn and restores the
// pre-transaction state if fn fails.
func (s *Store) InTx(_ context.Context, fn func(w store.StatsWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&txWriter{s: s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// txWriter writes through to the store while InTx holds its lock.
type txWriter struct {
	s *Store
}

// UpsertSeasonStats writes the row for (PlayerID, SeasonID), keeping the ID
// of an existing row.
func (w *txWriter) UpsertSeasonStats(_ context.Context, stats *store.PlayerSeasonStats) (int, error) {
	st := w.s.state
	if _, ok := st.seasons[stats.SeasonID]; !ok {
		return 0, fmt.Errorf("upserting season stats: season %d: %w", stats.SeasonID, store.ErrNotFound)
	}

	key := seasonalKey{playerID: stats.PlayerID, seasonID: stats.SeasonID}
	now := time.Now()
	row := *stats
	if existing, ok := st.seasonal[key]; ok {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	} else {
		row.ID = st.id("player_season_stats")
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	st.seasonal[key] = row
	stats.ID = row.ID
	return row.ID, nil
}

// UpsertModeStats writes the row for (SeasonalID, Mode).
func (w *txWriter) UpsertModeStats(_ context.Context, stats *store.ModeStats) error {
	if err := w.s.modeFaults[stats.Mode]; err != nil {
		return fmt.Errorf("upserting %s mode stats: %w", stats.Mode, err)
	}

	st := w.s.state
	key := modeKey{seasonalID: stats.SeasonalID, mode: stats.Mode}
	now := time.Now()
	row := *stats
	if existing, ok := st.modes[key]; ok {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	} else {
		row.ID = st.id("bp_mode_stats")
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	st.modes[key] = row
	stats.ID = row.ID
	return nil
}

// Players returns every player ordered by ID.
func (s *Store) Players() []store.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Player, 0, len(s.state.players))
	for _, p := range s.state.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Seasons returns every season ordered by ID.
func (s *Store) Seasons() []store.Season {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Season, 0, len(s.state.seasons))
	for _, season := range s.state.seasons {
		out = append(out, season)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SeasonStats returns every seasonal row ordered by ID.
func (s *Store) SeasonStats() []store.PlayerSeasonStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.PlayerSeasonStats, 0, len(s.state.seasonal))
	for _, row := range s.state.seasonal {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ModeStats returns the mode rows attached to one seasonal row, keyed by mode.
func (s *Store) ModeStats(seasonalID int) map[store.Mode]store.ModeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[store.Mode]store.ModeStats)
	for key, row := range s.state.modes {
		if key.seasonalID == seasonalID {
			out[key.mode] = row
		}
	}
	return out
}

// ModeRowCount returns the total number of mode rows.
func (s *Store) ModeRowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.modes)
}
