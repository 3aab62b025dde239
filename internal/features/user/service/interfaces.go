package service

import (
	"context"

	"catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
)

type UserService interface {
	// UpsertIdentity records the Discord identity seen at sign-in.
	UpsertIdentity(ctx context.Context, id snowflake.ID, username, avatar string) (*models.Profile, error)
	GetProfile(ctx context.Context, id snowflake.ID) (*models.Profile, error)
	// SetBadges replaces the claimed milestones and linked roles.
	SetBadges(ctx context.Context, id snowflake.ID, req *models.UpdateBadgesRequest) (*models.Profile, error)
}
