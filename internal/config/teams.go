package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FreeAgent is the team assigned to players missing from the team map
const FreeAgent = "Free Agent"

// TeamMap maps a player's display name to their team's name
type TeamMap map[string]string

// TeamFor returns the mapped team for player, or FreeAgent
func (m TeamMap) TeamFor(player string) string {
	if team, ok := m[player]; ok && team != "" {
		return team
	}
	return FreeAgent
}

// Teams returns the distinct team names in the map plus FreeAgent
func (m TeamMap) Teams() []string {
	seen := map[string]bool{FreeAgent: true}
	names := []string{FreeAgent}
	for _, team := range m {
		if team != "" && !seen[team] {
			seen[team] = true
			names = append(names, team)
		}
	}
	return names
}

// LoadTeamMap reads a JSON object of {"Player": "Team"} from path
func LoadTeamMap(path string) (TeamMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading team map: %w", err)
	}

	var m TeamMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing team map %s: %w", path, err)
	}
	if m == nil {
		m = TeamMap{}
	}

	return m, nil
}
