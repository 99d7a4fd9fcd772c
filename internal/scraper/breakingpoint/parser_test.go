package breakingpoint

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

func parseFixture(t *testing.T, name string) []RowResult {
	t.Helper()
	doc, err := ParseHTML(loadFixture(t, name))
	require.NoError(t, err)
	return ParseTable(doc)
}

func TestColumnTableCoversEveryCell(t *testing.T) {
	assert.Equal(t, 29, ExpectedCells)
	keys := map[string]bool{}
	for i, col := range columns {
		assert.NotEmpty(t, col.Header, "column %d has no header", i)
		assert.False(t, keys[col.Key], "duplicate key %q", col.Key)
		keys[col.Key] = true
	}
}

func TestParseTableMapsCellsByPosition(t *testing.T) {
	rows := parseFixture(t, "advanced_stats.html")
	require.Len(t, rows, 4)

	hydra := rows[0].Record
	require.NotNil(t, hydra)
	assert.Equal(t, "1", hydra.Rank)
	assert.Equal(t, "Hydra", hydra.PlayerName)
	assert.InDelta(t, 1.40, hydra.KD.Float64, 1e-9)
	assert.InDelta(t, 115.2, hydra.SlayerRating.Float64, 1e-9)
	assert.InDelta(t, 1.10, hydra.HPKD.Float64, 1e-9)
	assert.InDelta(t, 3456, hydra.HPDamagePer10Min.Float64, 1e-9)
	assert.Equal(t, int64(30), hydra.HPMapsPlayed.Int64)
	assert.InDelta(t, 1.20, hydra.SNDKD.Float64, 1e-9)
	assert.InDelta(t, 0.85, hydra.SNDKillsPerRound.Float64, 1e-9)
	assert.InDelta(t, 62.5, hydra.OPDWinPercentage.Float64, 1e-9)
	assert.Equal(t, int64(4), hydra.Defuses.Int64)
	assert.InDelta(t, 3012, hydra.CTLDamagePer10Min.Float64, 1e-9)
	assert.Equal(t, int64(120), hydra.ZoneTierCaptures.Int64)
	assert.InDelta(t, 1540.5, hydra.GameTimeMinutes.Float64, 1e-9)
	assert.Equal(t, int64(350), hydra.NonTradedKills.Int64)
	assert.Equal(t, int64(21), hydra.CTLMapsPlayed.Int64)
}

func TestParseTableSkipsShortRows(t *testing.T) {
	rows := parseFixture(t, "advanced_stats.html")

	skipped := rows[1].Skipped
	require.NotNil(t, skipped)
	assert.Nil(t, rows[1].Record)
	assert.Equal(t, 1, skipped.Index)
	assert.Equal(t, 28, skipped.Cells)
	assert.Equal(t, ReasonTooFewCells, skipped.Reason)
}

func TestParseTableSkipsRowsWithoutName(t *testing.T) {
	rows := parseFixture(t, "advanced_stats.html")

	skipped := rows[3].Skipped
	require.NotNil(t, skipped)
	assert.Equal(t, ReasonMissingName, skipped.Reason)
	assert.Equal(t, 29, skipped.Cells)
}

func TestParseTableFormattedCells(t *testing.T) {
	rows := parseFixture(t, "advanced_stats.html")

	dashy := rows[2].Record
	require.NotNil(t, dashy)
	assert.Equal(t, "#12", dashy.Rank)
	assert.Equal(t, int64(12), dashy.RankNumber().Int64)
	assert.False(t, dashy.KD.Valid, "non-numeric cell should be NULL")
	assert.InDelta(t, 1234, dashy.HPDamagePer10Min.Float64, 1e-9)
	assert.InDelta(t, 12.5, dashy.OPDWinPercentage.Float64, 1e-9)

	assert.True(t, dashy.HPMapsPlayed.Valid, "zero is a value, not NULL")
	assert.Zero(t, dashy.HPMapsPlayed.Int64)
	assert.True(t, dashy.FirstBloods.Valid)
	assert.Zero(t, dashy.FirstBloods.Int64)
}

func TestParseTableEmptyBody(t *testing.T) {
	rows := parseFixture(t, "empty_table.html")
	assert.Empty(t, rows)
}

func TestNumericParsing(t *testing.T) {
	floats := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"1.25", 1.25, true},
		{"12abc", 12, true},
		{"-0.5", -0.5, true},
		{".75", 0.75, true},
		{"1.2.3", 1.2, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
	}
	for _, tc := range floats {
		got := parseFloat(tc.in)
		assert.Equal(t, tc.valid, got.Valid, "parseFloat(%q)", tc.in)
		assert.InDelta(t, tc.want, got.Float64, 1e-9, "parseFloat(%q)", tc.in)
	}

	ints := []struct {
		in    string
		want  int64
		valid bool
	}{
		{"42", 42, true},
		{"12.9", 12, true},
		{"7 maps", 7, true},
		{"", 0, false},
		{"--", 0, false},
	}
	for _, tc := range ints {
		got := parseInt(tc.in)
		assert.Equal(t, tc.valid, got.Valid, "parseInt(%q)", tc.in)
		assert.Equal(t, tc.want, got.Int64, "parseInt(%q)", tc.in)
	}
}

func TestRankNumberWithoutDigits(t *testing.T) {
	r := RawStatRecord{Rank: "T-"}
	assert.False(t, r.RankNumber().Valid)
}
