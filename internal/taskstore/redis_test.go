package taskstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestRedis requires a running Redis at PALLETFORGE_TEST_REDIS or
// localhost:6379. It is skipped when the server cannot be reached.
func TestRedis(t *testing.T) {
	addr := os.Getenv("PALLETFORGE_TEST_REDIS")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := NewRedisClient(addr, "", 0)
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	runStoreTests(t, func(t *testing.T, clock *testClock) Store {
		prefix := "palletforge-test:" + uuid.NewString() + ":"
		s := NewRedis(client, RedisOptions{Prefix: prefix})
		s.now = clock.Now
		t.Cleanup(func() {
			ctx := context.Background()
			keys, err := client.Keys(ctx, prefix+"*").Result()
			require.NoError(t, err)
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		})
		return s
	})
}
