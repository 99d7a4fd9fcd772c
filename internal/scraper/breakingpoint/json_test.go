package breakingpoint

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJSONUsesPlainNumbers(t *testing.T) {
	rec := RawStatRecord{
		Rank:           "#3",
		PlayerName:     "Dashy",
		KD:             sql.NullFloat64{Float64: 1.05, Valid: true},
		NonTradedKills: sql.NullInt64{Int64: 0, Valid: true},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, ExpectedCells)
	assert.Equal(t, "#3", fields["rank"])
	assert.Equal(t, "Dashy", fields["player_name"])
	assert.Equal(t, 1.05, fields["kd"])
	assert.Equal(t, float64(0), fields["non_traded_kills"])
	assert.Nil(t, fields["overall_rating"])
	assert.Contains(t, string(data), `"overall_rating":null`)
	assert.NotContains(t, string(data), "Valid")
}

func TestRecordJSONKeepsColumnOrder(t *testing.T) {
	data, err := json.Marshal(RawStatRecord{PlayerName: "Hydra"})
	require.NoError(t, err)
	assert.Regexp(t, `^\{"rank":"","player_name":"Hydra","kd":null,`, string(data))
}

func TestExtractionJSONRoundTrip(t *testing.T) {
	extraction := &Extraction{SourceURL: SourceURL, Rows: parseFixture(t, "advanced_stats.html")}

	data, err := json.Marshal(extraction)
	require.NoError(t, err)

	var decoded Extraction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, extraction.Records(), decoded.Records())
	assert.Equal(t, extraction.Skipped(), decoded.Skipped())
}

func TestRecordUnmarshalRejectsWrongTypes(t *testing.T) {
	var rec RawStatRecord
	err := json.Unmarshal([]byte(`{"player_name":"Hydra","kd":"high"}`), &rec)
	assert.Error(t, err)
}
