package statsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"

	"github.com/fortuna/cdlstats/internal/store"
)

// RosterEntry is one player in a roster file
type RosterEntry struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Country string `json:"country"`
	Team    string `json:"team"`
}

// RosterResult counts the changes made by a roster sync
type RosterResult struct {
	Entries        int `json:"entries"`
	TeamsCreated   int `json:"teams_created"`
	PlayersCreated int `json:"players_created"`
	PlayersUpdated int `json:"players_updated"`
}

// LoadRoster reads a JSON array of roster entries from path
func LoadRoster(path string) ([]RosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var entries []RosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	return entries, nil
}

// RosterSyncer applies roster entries to the team and player tables. Unlike
// the stats sync it creates missing teams and rewrites player profiles.
type RosterSyncer struct {
	store  store.Store
	logger *log.Logger
}

// NewRosterSyncer creates a roster syncer backed by st
func NewRosterSyncer(st store.Store, logger *log.Logger) *RosterSyncer {
	if logger == nil {
		logger = log.Default()
	}
	return &RosterSyncer{store: st, logger: logger}
}

// Run applies entries in order and stops at the first failure
func (s *RosterSyncer) Run(ctx context.Context, entries []RosterEntry) (*RosterResult, error) {
	result := &RosterResult{Entries: len(entries)}
	if len(entries) == 0 {
		s.logger.Warn("No roster entries to sync")
		return result, nil
	}

	teamIDs := make(map[string]int)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.Name == "" || entry.Team == "" {
			return result, fmt.Errorf("roster entry %+v: name and team are required", entry)
		}

		teamID, ok := teamIDs[entry.Team]
		if !ok {
			id, created, err := s.ensureTeam(ctx, entry.Team)
			if err != nil {
				return result, err
			}
			if created {
				result.TeamsCreated++
				s.logger.Infof("  ✓ Created team %q (id=%d)", entry.Team, id)
			}
			teamIDs[entry.Team] = id
			teamID = id
		}

		player := &store.Player{
			Name:    entry.Name,
			TeamID:  nullInt(teamID),
			Role:    nullString(entry.Role),
			Country: nullString(entry.Country),
		}

		err := s.store.UpdatePlayerProfile(ctx, player)
		switch {
		case err == nil:
			result.PlayersUpdated++
		case errors.Is(err, store.ErrNotFound):
			if _, err := s.store.CreatePlayer(ctx, player); err != nil {
				return result, datastoreErr(fmt.Sprintf("create player %q", entry.Name), err)
			}
			result.PlayersCreated++
		default:
			return result, datastoreErr(fmt.Sprintf("update player %q", entry.Name), err)
		}
	}

	s.logger.Infof("✓ Synced %d players (%d created, %d updated, %d new teams)",
		result.Entries, result.PlayersCreated, result.PlayersUpdated, result.TeamsCreated)
	return result, nil
}

func (s *RosterSyncer) ensureTeam(ctx context.Context, name string) (int, bool, error) {
	team, err := s.store.GetTeamByName(ctx, name)
	if err == nil {
		return team.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, false, datastoreErr(fmt.Sprintf("lookup team %q", name), err)
	}

	id, err := s.store.CreateTeam(ctx, &store.Team{TeamName: name, Slug: slug.Make(name)})
	if err != nil {
		return 0, false, datastoreErr(fmt.Sprintf("create team %q", name), err)
	}
	return id, true, nil
}
