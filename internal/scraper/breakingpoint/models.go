package breakingpoint

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// RawStatRecord is one parsed row of the advanced stats table.
// Numeric cells that could not be parsed are left NULL.
// Its JSON keys come from the column table.
type RawStatRecord struct {
	Rank                  string
	PlayerName            string
	KD                    sql.NullFloat64
	OverallRating         sql.NullFloat64
	SlayerRating          sql.NullFloat64
	TrueEngagementSuccess sql.NullFloat64

	HPKD                  sql.NullFloat64
	HPKillsPer10Min       sql.NullFloat64
	HPDamagePer10Min      sql.NullFloat64
	HPObjPer10Min         sql.NullFloat64
	HPEngagementsPer10Min sql.NullFloat64
	HPMapsPlayed          sql.NullInt64

	SNDKD            sql.NullFloat64
	SNDKillsPerRound sql.NullFloat64
	FirstBloods      sql.NullInt64
	FirstDeaths      sql.NullInt64
	OPDWinPercentage sql.NullFloat64
	Plants           sql.NullInt64
	Defuses          sql.NullInt64
	SNDMapsPlayed    sql.NullInt64

	CTLKD                  sql.NullFloat64
	CTLKillsPer10Min       sql.NullFloat64
	CTLDamagePer10Min      sql.NullFloat64
	CTLEngagementsPer10Min sql.NullFloat64
	ZoneTierCaptures       sql.NullInt64
	CTLMaps                sql.NullInt64

	GameTimeMinutes sql.NullFloat64
	NonTradedKills  sql.NullInt64
	CTLMapsPlayed   sql.NullInt64
}

// RankNumber returns the numeric part of Rank ("#12" -> 12), NULL when there is none.
func (r *RawStatRecord) RankNumber() sql.NullInt64 {
	digits := strings.Map(func(c rune) rune {
		if c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, r.Rank)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

// SkipReason explains why a table row produced no record
type SkipReason string

const (
	ReasonTooFewCells SkipReason = "too_few_cells"
	ReasonMissingName SkipReason = "missing_player_name"
)

// SkippedRow is a table row that could not be turned into a record
type SkippedRow struct {
	Index  int        `json:"index"`
	Cells  int        `json:"cells"`
	Reason SkipReason `json:"reason"`
}

// RowResult is the outcome for one table row. Exactly one field is set.
type RowResult struct {
	Record  *RawStatRecord `json:"record,omitempty"`
	Skipped *SkippedRow    `json:"skipped,omitempty"`
}

// Extraction is a fully materialized scrape of the stats table
type Extraction struct {
	SourceURL string      `json:"source_url"`
	ScrapedAt time.Time   `json:"scraped_at"`
	Rows      []RowResult `json:"rows"`
}

// Records returns the parsed records in table order
func (e *Extraction) Records() []RawStatRecord {
	records := make([]RawStatRecord, 0, len(e.Rows))
	for _, row := range e.Rows {
		if row.Record != nil {
			records = append(records, *row.Record)
		}
	}
	return records
}

// Skipped returns the rows that produced no record
func (e *Extraction) Skipped() []SkippedRow {
	var skipped []SkippedRow
	for _, row := range e.Rows {
		if row.Skipped != nil {
			skipped = append(skipped, *row.Skipped)
		}
	}
	return skipped
}
