package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/repository"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "profile:"
	profileSetKey    = "profiles"
	listBatchSize    = 100
	maxWatchRetries  = 5
)

type profileRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewProfileRepository(client redis.UniversalClient) repository.ProfileRepository {
	return &profileRepository{
		client: client,
		now:    time.Now,
	}
}

func profileKey(id snowflake.ID) string {
	return profileKeyPrefix + id.String()
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	now := r.now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, profileKey(profile.DiscordID), data, 0)
		pipe.SAdd(ctx, profileSetKey, profile.DiscordID.String())
		return nil
	})
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id snowflake.ID) (*models.Profile, error) {
	data, err := r.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	ids, err := r.client.SMembers(ctx, profileSetKey).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, len(ids))
	for start := 0; start < len(ids); start += listBatchSize {
		end := min(start+listBatchSize, len(ids))
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, profileKeyPrefix+id)
		}

		values, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				// Indexed but deleted; drop the stale index entry.
				r.client.SRem(ctx, profileSetKey, ids[start+i])
				continue
			}
			var profile models.Profile
			if err := json.Unmarshal([]byte(s), &profile); err != nil {
				continue
			}
			profiles = append(profiles, &profile)
		}
	}
	return profiles, nil
}

// UpdateSyncState re-reads the profile under WATCH and writes back only the
// sync-owned fields, so edits made by other flows since the sync read the
// profile survive.
func (r *profileRepository) UpdateSyncState(ctx context.Context, id snowflake.ID, st models.SyncState) (bool, error) {
	key := profileKey(id)
	var applied bool

	txf := func(tx *redis.Tx) error {
		applied = false
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return repository.ErrProfileNotFound
			}
			return err
		}

		var profile models.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			return fmt.Errorf("decode profile %s: %w", id, err)
		}
		if !profile.ApplySyncState(st) {
			return nil
		}
		profile.UpdatedAt = r.now().UTC()

		out, err := json.Marshal(&profile)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			applied = true
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return applied, err
	}
	return false, fmt.Errorf("update sync state %s: %w", id, redis.TxFailedErr)
}
