package breakingpoint

import (
	"database/sql"
	"strconv"
	"strings"
)

type cellKind int

const (
	kindText cellKind = iota
	kindRank
	kindFloat
	kindInt
	kindPercent
)

// column maps one cell position of the stats table onto a record field.
// Position in the columns slice is the cell index.
type column struct {
	Header string
	Key    string
	Kind   cellKind

	asText  func(r *RawStatRecord) *string
	asFloat func(r *RawStatRecord) *sql.NullFloat64
	asInt   func(r *RawStatRecord) *sql.NullInt64
}

func textCol(header, key string, kind cellKind, f func(r *RawStatRecord) *string) column {
	return column{Header: header, Key: key, Kind: kind, asText: f}
}

func floatCol(header, key string, kind cellKind, f func(r *RawStatRecord) *sql.NullFloat64) column {
	return column{Header: header, Key: key, Kind: kind, asFloat: f}
}

func intCol(header, key string, f func(r *RawStatRecord) *sql.NullInt64) column {
	return column{Header: header, Key: key, Kind: kindInt, asInt: f}
}

var columns = []column{
	textCol("Rank", "rank", kindRank, func(r *RawStatRecord) *string { return &r.Rank }),
	textCol("Player", "player_name", kindText, func(r *RawStatRecord) *string { return &r.PlayerName }),
	floatCol("K/D", "kd", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.KD }),
	floatCol("Overall Rating", "overall_rating", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.OverallRating }),
	floatCol("Slayer Rating", "slayer_rating", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.SlayerRating }),
	floatCol("True Engagement Success", "true_engagement_success", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.TrueEngagementSuccess }),

	floatCol("HP K/D", "hp_kd", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.HPKD }),
	floatCol("HP Kills/10m", "hp_kills_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.HPKillsPer10Min }),
	floatCol("HP Damage/10m", "hp_damage_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.HPDamagePer10Min }),
	floatCol("HP Obj/10m", "hp_obj_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.HPObjPer10Min }),
	floatCol("HP Engagements/10m", "hp_engagements_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.HPEngagementsPer10Min }),
	intCol("HP Maps", "hp_maps_played", func(r *RawStatRecord) *sql.NullInt64 { return &r.HPMapsPlayed }),

	floatCol("SND K/D", "snd_kd", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.SNDKD }),
	floatCol("SND Kills/Round", "snd_kills_per_round", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.SNDKillsPerRound }),
	intCol("First Bloods", "first_bloods", func(r *RawStatRecord) *sql.NullInt64 { return &r.FirstBloods }),
	intCol("First Deaths", "first_deaths", func(r *RawStatRecord) *sql.NullInt64 { return &r.FirstDeaths }),
	floatCol("OPD Win %", "opd_win_percentage", kindPercent, func(r *RawStatRecord) *sql.NullFloat64 { return &r.OPDWinPercentage }),
	intCol("Plants", "plants", func(r *RawStatRecord) *sql.NullInt64 { return &r.Plants }),
	intCol("Defuses", "defuses", func(r *RawStatRecord) *sql.NullInt64 { return &r.Defuses }),
	intCol("SND Maps", "snd_maps_played", func(r *RawStatRecord) *sql.NullInt64 { return &r.SNDMapsPlayed }),

	floatCol("CTL K/D", "ctl_kd", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.CTLKD }),
	floatCol("CTL Kills/10m", "ctl_kills_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.CTLKillsPer10Min }),
	floatCol("CTL Damage/10m", "ctl_damage_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.CTLDamagePer10Min }),
	floatCol("CTL Engagements/10m", "ctl_engagements_per_10_min", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.CTLEngagementsPer10Min }),
	intCol("Zone Tier Captures", "zone_tier_captures", func(r *RawStatRecord) *sql.NullInt64 { return &r.ZoneTierCaptures }),
	intCol("CTL Maps", "ctl_maps", func(r *RawStatRecord) *sql.NullInt64 { return &r.CTLMaps }),

	floatCol("Game Time (min)", "game_time_minutes", kindFloat, func(r *RawStatRecord) *sql.NullFloat64 { return &r.GameTimeMinutes }),
	intCol("Non-Traded Kills", "non_traded_kills", func(r *RawStatRecord) *sql.NullInt64 { return &r.NonTradedKills }),
	intCol("CTL Maps Played", "ctl_maps_played", func(r *RawStatRecord) *sql.NullInt64 { return &r.CTLMapsPlayed }),
}

// ExpectedCells is the minimum number of cells a row needs to produce a record
var ExpectedCells = len(columns)

// apply parses raw into the record field this column maps to
func (c column) apply(r *RawStatRecord, raw string) {
	raw = strings.TrimSpace(raw)
	switch c.Kind {
	case kindText, kindRank:
		*c.asText(r) = raw
	case kindFloat:
		*c.asFloat(r) = parseFloat(strings.ReplaceAll(raw, ",", ""))
	case kindPercent:
		*c.asFloat(r) = parseFloat(strings.ReplaceAll(strings.ReplaceAll(raw, "%", ""), ",", ""))
	case kindInt:
		*c.asInt(r) = parseInt(strings.ReplaceAll(raw, ",", ""))
	}
}

// numericPrefix returns the longest leading run of s that looks like a
// signed decimal number.
func numericPrefix(s string) string {
	end := 0
	seenDigit, seenDot := false, false
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			if !seenDigit {
				return ""
			}
			return s[:end]
		}
	}
	if !seenDigit {
		return ""
	}
	return s[:end]
}

func parseFloat(s string) sql.NullFloat64 {
	prefix := numericPrefix(strings.TrimSpace(s))
	if prefix == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// parseInt truncates like the page's own integer parsing: "12.9" is 12.
func parseInt(s string) sql.NullInt64 {
	prefix := numericPrefix(strings.TrimSpace(s))
	if i := strings.IndexByte(prefix, '.'); i >= 0 {
		prefix = prefix[:i]
	}
	if prefix == "" || prefix == "-" || prefix == "+" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
