package store

import (
	"database/sql"
	"time"
)

// Mode is one of the competitive formats tracked per seasonal stats row.
type Mode string

const (
	ModeHardpoint     Mode = "HP"
	ModeSearchDestroy Mode = "SND"
	ModeControl       Mode = "CTL"
)

// Modes lists every mode in write order.
var Modes = []Mode{ModeHardpoint, ModeSearchDestroy, ModeControl}

// Season represents a league season
type Season struct {
	ID        int       `json:"id" db:"id"`
	Year      int       `json:"year" db:"year"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Team represents a franchise. Rows are seeded, the stats sync never creates them.
type Team struct {
	ID           int            `json:"id" db:"id"`
	TeamName     string         `json:"team_name" db:"team_name"`
	TeamLocation sql.NullString `json:"team_location,omitempty" db:"team_location"`
	ShortName    sql.NullString `json:"short_name,omitempty" db:"short_name"`
	Slug         string         `json:"slug" db:"slug"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a professional player keyed by display name
type Player struct {
	ID        int            `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	TeamID    sql.NullInt64  `json:"team_id,omitempty" db:"team_id"`
	Role      sql.NullString `json:"role,omitempty" db:"role"`
	Country   sql.NullString `json:"country,omitempty" db:"country"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// PlayerSeasonStats is the seasonal aggregate row that mode rows attach to.
// Natural key: (PlayerID, SeasonID).
type PlayerSeasonStats struct {
	ID                    int             `json:"id" db:"id"`
	PlayerID              int             `json:"player_id" db:"player_id"`
	SeasonID              int             `json:"season_id" db:"season_id"`
	Rank                  sql.NullInt64   `json:"player_rank,omitempty" db:"player_rank"`
	KD                    sql.NullFloat64 `json:"kd,omitempty" db:"kd"`
	OverallRating         sql.NullFloat64 `json:"overall_rating,omitempty" db:"overall_rating"`
	SlayerRating          sql.NullFloat64 `json:"slayer_rating,omitempty" db:"slayer_rating"`
	TrueEngagementSuccess sql.NullFloat64 `json:"true_engagement_success,omitempty" db:"true_engagement_success"`
	GameTimeMinutes       sql.NullFloat64 `json:"game_time_minutes,omitempty" db:"game_time_minutes"`
	NonTradedKills        sql.NullInt64   `json:"non_traded_kills,omitempty" db:"non_traded_kills"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// ModeStats holds per-mode numbers for one seasonal row.
// Natural key: (SeasonalID, Mode). Fields that do not apply to a mode are NULL.
type ModeStats struct {
	ID                   int             `json:"id" db:"id"`
	SeasonalID           int             `json:"bp_seasonal_id" db:"bp_seasonal_id"`
	Mode                 Mode            `json:"mode" db:"mode"`
	KD                   sql.NullFloat64 `json:"kd,omitempty" db:"kd"`
	KillsPer10Min        sql.NullFloat64 `json:"kills_per_10_min,omitempty" db:"kills_per_10_min"`
	DamagePer10Min       sql.NullFloat64 `json:"damage_per_10_min,omitempty" db:"damage_per_10_min"`
	EngagementsPer10Min  sql.NullFloat64 `json:"engagements_per_10_min,omitempty" db:"engagements_per_10_min"`
	MapsPlayed           sql.NullInt64   `json:"maps_played,omitempty" db:"maps_played"`
	ObjPer10Min          sql.NullFloat64 `json:"obj_per_10_min,omitempty" db:"obj_per_10_min"`
	ZoneTierCaptures     sql.NullInt64   `json:"zone_tier_captures,omitempty" db:"zone_tier_captures"`
	KillsPerRound        sql.NullFloat64 `json:"kills_per_round,omitempty" db:"kills_per_round"`
	FirstBloods          sql.NullInt64   `json:"first_bloods,omitempty" db:"first_bloods"`
	FirstDeaths          sql.NullInt64   `json:"first_deaths,omitempty" db:"first_deaths"`
	OPDWinPercentage     sql.NullFloat64 `json:"opd_win_percentage,omitempty" db:"opd_win_percentage"`
	Plants               sql.NullInt64   `json:"plants,omitempty" db:"plants"`
	Defuses              sql.NullInt64   `json:"defuses,omitempty" db:"defuses"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}
