package service

import (
	"context"
	"time"

	"catcents-backend/internal/common/retry"
	"catcents-backend/internal/features/roles/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

type retryingAPI struct {
	next   GuildAPI
	policy retry.Policy
}

// WithRetry wraps every call on api with the rate-limit retry policy.
func WithRetry(api GuildAPI, policy retry.Policy, log zerolog.Logger) GuildAPI {
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, delay time.Duration, err error) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Discord API busy, retrying")
		}
	}
	return &retryingAPI{next: api, policy: policy}
}

func (r *retryingAPI) ListGuildRoles(ctx context.Context) ([]models.GuildRole, error) {
	return retry.DoValue(ctx, r.policy, r.next.ListGuildRoles)
}

func (r *retryingAPI) CreateGuildRole(ctx context.Context, params models.CreateRoleParams) (models.GuildRole, error) {
	return retry.DoValue(ctx, r.policy, func(ctx context.Context) (models.GuildRole, error) {
		return r.next.CreateGuildRole(ctx, params)
	})
}

func (r *retryingAPI) GetMemberRoles(ctx context.Context, member models.MemberRef) ([]snowflake.ID, error) {
	return retry.DoValue(ctx, r.policy, func(ctx context.Context) ([]snowflake.ID, error) {
		return r.next.GetMemberRoles(ctx, member)
	})
}

func (r *retryingAPI) AddMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.AddMemberRoles(ctx, member, roleIDs)
	})
}

func (r *retryingAPI) RemoveMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.RemoveMemberRoles(ctx, member, roleIDs)
	})
}

func (r *retryingAPI) FindMemberByUsername(ctx context.Context, username string) (models.MemberRef, error) {
	return retry.DoValue(ctx, r.policy, func(ctx context.Context) (models.MemberRef, error) {
		return r.next.FindMemberByUsername(ctx, username)
	})
}
