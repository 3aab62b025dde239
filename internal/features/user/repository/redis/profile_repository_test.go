package redis

import (
	"context"
	"testing"
	"time"

	"catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (repository.ProfileRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProfileRepository(client), mr
}

func TestProfileRepository_SaveAndGet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	p := &models.Profile{
		DiscordID:     80351110224678912,
		Username:      "whisker",
		ClaimedBadges: []int{500, 1000},
		NFTCount:      12,
	}
	require.NoError(t, repo.Save(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.True(t, mr.Exists("profile:80351110224678912"))

	got, err := repo.GetByID(ctx, 80351110224678912)
	require.NoError(t, err)
	assert.Equal(t, "whisker", got.Username)
	assert.Equal(t, []int{500, 1000}, got.ClaimedBadges)
	assert.Equal(t, 12, got.NFTCount)
	assert.Equal(t, p.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestProfileRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestProfileRepository_SaveKeepsCreatedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	p := &models.Profile{DiscordID: 42}
	require.NoError(t, repo.Save(ctx, p))
	created := p.CreatedAt

	p.Username = "renamed"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestProfileRepository_List(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 250; i++ {
		require.NoError(t, repo.Save(ctx, &models.Profile{DiscordID: snowflake.ID(i)}))
	}

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 250)
}

func TestProfileRepository_ListDropsStaleIndex(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Profile{DiscordID: 1}))
	require.NoError(t, repo.Save(ctx, &models.Profile{DiscordID: 2}))
	mr.Del("profile:2")

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, snowflake.ID(1), profiles[0].DiscordID)

	members, err := mr.Members("profiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)
}

func TestProfileRepository_UpdateSyncState(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	submitted := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &models.Profile{
		DiscordID:     7,
		WalletAddress: "0x1111111111111111111111111111111111111111",
		WalletAt:      &submitted,
		NFTCount:      5,
		NFTRoleName:   "Whisker",
		RoleStatus:    models.RoleStatusPending,
	}))

	// An admin edit lands after the sync read the profile.
	stored, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	stored.ClaimedBadges = []int{500}
	require.NoError(t, repo.Save(ctx, stored))

	synced := time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC)
	ok, err := repo.UpdateSyncState(ctx, 7, models.SyncState{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		WalletAt:      &submitted,
		NFTCount:      6,
		NFTRoleName:   "Whisker",
		RoleStatus:    models.RoleStatusAssigned,
		SyncedAt:      synced,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{500}, got.ClaimedBadges)
	assert.Equal(t, 6, got.NFTCount)
	assert.Equal(t, models.RoleStatusAssigned, got.RoleStatus)
	require.NotNil(t, got.SyncedAt)
	assert.True(t, synced.Equal(*got.SyncedAt))
}

func TestProfileRepository_UpdateSyncStateSkipsResubmittedWallet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &models.Profile{
		DiscordID:     7,
		WalletAddress: "0x1111111111111111111111111111111111111111",
		WalletAt:      &first,
		NFTCount:      1,
		NFTRoleName:   "Kitten",
		RoleStatus:    models.RoleStatusPending,
	}))
	st := models.SyncState{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		WalletAt:      &first,
		NFTCount:      1,
		NFTRoleName:   "Kitten",
		RoleStatus:    models.RoleStatusAssigned,
		SyncedAt:      time.Now(),
	}

	second := first.Add(time.Minute)
	require.NoError(t, repo.Save(ctx, &models.Profile{
		DiscordID:     7,
		WalletAddress: "0x2222222222222222222222222222222222222222",
		WalletAt:      &second,
		NFTCount:      12,
		NFTRoleName:   "Big Whisker",
		RoleStatus:    models.RoleStatusPending,
	}))

	ok, err := repo.UpdateSyncState(ctx, 7, st)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", got.WalletAddress)
	assert.Equal(t, 12, got.NFTCount)
	assert.Equal(t, models.RoleStatusPending, got.RoleStatus)
	assert.Nil(t, got.SyncedAt)
}

func TestProfileRepository_UpdateSyncStateMissing(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.UpdateSyncState(context.Background(), 9, models.SyncState{})
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}
