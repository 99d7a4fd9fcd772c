package statsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/fortuna/cdlstats/internal/config"
	"github.com/fortuna/cdlstats/internal/store"
)

// RefCache memoizes natural-key lookups for the lifetime of one run.
// It is not shared between runs.
type RefCache struct {
	seasons map[int]int
	teams   map[string]int
	players map[string]int
}

// NewRefCache returns an empty cache
func NewRefCache() *RefCache {
	return &RefCache{
		seasons: make(map[int]int),
		teams:   make(map[string]int),
		players: make(map[string]int),
	}
}

// SeasonDefaults is inserted when the desired season does not exist
type SeasonDefaults struct {
	Year  int
	Title string
}

// Resolver maps names and ids from the scraped table onto datastore rows
type Resolver struct {
	store    store.Store
	teams    config.TeamMap
	defaults SeasonDefaults
	logger   *log.Logger
}

// NewResolver creates a resolver backed by st
func NewResolver(st store.Store, teams config.TeamMap, defaults SeasonDefaults, logger *log.Logger) *Resolver {
	if teams == nil {
		teams = config.TeamMap{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{store: st, teams: teams, defaults: defaults, logger: logger}
}

// ResolveSeason returns desiredID, creating the season under that id from the
// configured defaults when it is missing.
func (r *Resolver) ResolveSeason(ctx context.Context, cache *RefCache, desiredID int) (int, bool, error) {
	if id, ok := cache.seasons[desiredID]; ok {
		return id, false, nil
	}

	season, err := r.store.GetSeason(ctx, desiredID)
	if err == nil {
		cache.seasons[desiredID] = season.ID
		return season.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, false, datastoreErr("lookup season", err)
	}

	id, err := r.store.CreateSeason(ctx, desiredID, r.defaults.Year, r.defaults.Title)
	if err != nil {
		return 0, false, datastoreErr("create season", err)
	}

	r.logger.Infof("✓ Created season %d (%s)", id, r.defaults.Title)
	cache.seasons[desiredID] = id
	return id, true, nil
}

// ResolveTeam maps playerName to a team through the team map and returns the
// team's id and name. A missing team row is an UnknownTeamError.
func (r *Resolver) ResolveTeam(ctx context.Context, cache *RefCache, playerName string) (int, string, error) {
	teamName := r.teams.TeamFor(playerName)
	if id, ok := cache.teams[teamName]; ok {
		return id, teamName, nil
	}

	team, err := r.store.GetTeamByName(ctx, teamName)
	if errors.Is(err, store.ErrNotFound) {
		return 0, teamName, &UnknownTeamError{PlayerName: playerName, TeamName: teamName}
	}
	if err != nil {
		return 0, teamName, datastoreErr(fmt.Sprintf("lookup team %q", teamName), err)
	}

	cache.teams[teamName] = team.ID
	return team.ID, teamName, nil
}

// ResolvePlayer returns the player's id, inserting the player on the given
// team when absent. An existing player is returned unchanged.
func (r *Resolver) ResolvePlayer(ctx context.Context, cache *RefCache, name string, teamID int) (int, bool, error) {
	if id, ok := cache.players[name]; ok {
		return id, false, nil
	}

	player, err := r.store.GetPlayerByName(ctx, name)
	if err == nil {
		cache.players[name] = player.ID
		return player.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, false, datastoreErr(fmt.Sprintf("lookup player %q", name), err)
	}

	id, err := r.store.CreatePlayer(ctx, &store.Player{
		Name:   name,
		TeamID: nullInt(teamID),
	})
	if err != nil {
		return 0, false, datastoreErr(fmt.Sprintf("create player %q", name), err)
	}

	cache.players[name] = id
	return id, true, nil
}
