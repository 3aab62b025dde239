package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// StateRepository keeps OAuth state values until the callback uses them.
type StateRepository struct {
	client redis.Cmdable
}

func NewStateRepository(client redis.Cmdable) *StateRepository {
	return &StateRepository{client: client}
}

func (r *StateRepository) Save(ctx context.Context, state string, ttl time.Duration) error {
	return r.client.Set(ctx, stateKeyPrefix+state, "1", ttl).Err()
}

// Consume deletes the state and reports whether it existed. A state can
// only be consumed once.
func (r *StateRepository) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := r.client.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
