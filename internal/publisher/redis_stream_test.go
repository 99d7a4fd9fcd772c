package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPublisher(t *testing.T, stream string) (*miniredis.Miniredis, *RedisStreamPublisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	p := NewRedisStreamPublisher(client, stream)
	p.now = func() time.Time { return time.Unix(1740830400, 0) }
	return mr, p
}

func TestPublishAppendsToStream(t *testing.T) {
	mr, p := setupPublisher(t, "")

	payload := map[string]interface{}{"player_name": "Hydra", "kd": 1.35}
	require.NoError(t, p.Publish(context.Background(), "player_synced", payload))
	require.NoError(t, p.Publish(context.Background(), "sync_completed", map[string]int{"synced": 1}))

	entries, err := mr.Stream(DefaultStream)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := fieldMap(entries[0].Values)
	assert.Equal(t, "player_synced", first["event"])
	assert.JSONEq(t, `{"player_name":"Hydra","kd":1.35}`, first["data"])
	assert.Equal(t, "1740830400", first["timestamp"])

	assert.Equal(t, "sync_completed", fieldMap(entries[1].Values)["event"])
}

func TestPublishUsesConfiguredStream(t *testing.T) {
	mr, p := setupPublisher(t, "stats.sync.test")

	require.NoError(t, p.Publish(context.Background(), "player_synced", struct{}{}))

	entries, err := mr.Stream("stats.sync.test")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPublishRejectsUnencodablePayload(t *testing.T) {
	_, p := setupPublisher(t, "")

	err := p.Publish(context.Background(), "player_synced", make(chan int))
	assert.Error(t, err)
}

func TestPublishReportsRedisErrors(t *testing.T) {
	mr, p := setupPublisher(t, "")
	mr.SetError("ERR injected failure")

	err := p.Publish(context.Background(), "player_synced", struct{}{})
	assert.Error(t, err)
}

// fieldMap turns a flat [k1, v1, k2, v2] stream entry into a map
func fieldMap(values []string) map[string]string {
	m := make(map[string]string, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		m[values[i]] = values[i+1]
	}
	return m
}
