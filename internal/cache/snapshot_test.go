package cache

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })
	return mr, rc
}

func sampleExtraction() *breakingpoint.Extraction {
	return &breakingpoint.Extraction{
		SourceURL: breakingpoint.SourceURL,
		ScrapedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Rows: []breakingpoint.RowResult{
			{Record: &breakingpoint.RawStatRecord{
				Rank:             "1",
				PlayerName:       "Hydra",
				KD:               sql.NullFloat64{Float64: 1.35, Valid: true},
				OPDWinPercentage: sql.NullFloat64{Float64: 62.5, Valid: true},
				HPMapsPlayed:     sql.NullInt64{Int64: 30, Valid: true},
			}},
			{Skipped: &breakingpoint.SkippedRow{Index: 1, Cells: 28, Reason: breakingpoint.ReasonTooFewCells}},
		},
	}
}

type stubExtractor struct {
	extraction *breakingpoint.Extraction
	err        error
	calls      int
}

func (s *stubExtractor) Extract(context.Context) (*breakingpoint.Extraction, error) {
	s.calls++
	return s.extraction, s.err
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not a url")
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, rc := setupRedis(t)
	c := NewSnapshotCache(rc.Client(), time.Hour)

	want := sampleExtraction()
	require.NoError(t, c.Save(ctx, want))
	assert.Equal(t, time.Hour, mr.TTL(SnapshotKey))

	got, err := c.Extract(ctx)
	require.NoError(t, err)
	assert.True(t, want.ScrapedAt.Equal(got.ScrapedAt))
	require.Len(t, got.Records(), 1)
	assert.Equal(t, "Hydra", got.Records()[0].PlayerName)
	assert.InDelta(t, 62.5, got.Records()[0].OPDWinPercentage.Float64, 1e-9)
	assert.False(t, got.Records()[0].SlayerRating.Valid)
	require.Len(t, got.Skipped(), 1)
	assert.Equal(t, breakingpoint.ReasonTooFewCells, got.Skipped()[0].Reason)
}

func TestSnapshotExpires(t *testing.T) {
	ctx := context.Background()
	mr, rc := setupRedis(t)
	c := NewSnapshotCache(rc.Client(), time.Minute)

	require.NoError(t, c.Save(ctx, sampleExtraction()))
	mr.FastForward(2 * time.Minute)

	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotRejectsCorruptData(t *testing.T) {
	mr, rc := setupRedis(t)
	require.NoError(t, mr.Set(SnapshotKey, "{not json"))

	_, err := NewSnapshotCache(rc.Client(), 0).Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func TestWriteThroughCachesLiveExtraction(t *testing.T) {
	ctx := context.Background()
	mr, rc := setupRedis(t)
	c := NewSnapshotCache(rc.Client(), time.Hour)
	live := &stubExtractor{extraction: sampleExtraction()}

	got, err := NewWriteThrough(live, c, log.New(io.Discard)).Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, live.calls)
	assert.Len(t, got.Records(), 1)
	assert.True(t, mr.Exists(SnapshotKey))
}

func TestWriteThroughSkipsCacheOnError(t *testing.T) {
	ctx := context.Background()
	mr, rc := setupRedis(t)
	live := &stubExtractor{err: breakingpoint.ErrExtractionTimeout}

	_, err := NewWriteThrough(live, NewSnapshotCache(rc.Client(), time.Hour), log.New(io.Discard)).Extract(ctx)
	assert.ErrorIs(t, err, breakingpoint.ErrExtractionTimeout)
	assert.False(t, mr.Exists(SnapshotKey))
}

func TestWriteThroughSurvivesCacheOutage(t *testing.T) {
	ctx := context.Background()
	mr, rc := setupRedis(t)
	mr.SetError("ERR injected failure")
	live := &stubExtractor{extraction: sampleExtraction()}

	got, err := NewWriteThrough(live, NewSnapshotCache(rc.Client(), time.Hour), log.New(io.Discard)).Extract(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Records(), 1)
}
