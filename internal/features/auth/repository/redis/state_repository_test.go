package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewStateRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "abc", 10*time.Minute))
	assert.Equal(t, 10*time.Minute, mr.TTL("oauth_state:abc"))

	ok, err := repo.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok, "state is single use")

	ok, err = repo.Consume(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, "old", time.Minute))
	mr.FastForward(2 * time.Minute)
	ok, err = repo.Consume(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}
