package repository

import (
	"context"
	"errors"

	"catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	// Save creates or replaces the profile and stamps UpdatedAt.
	Save(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id snowflake.ID) (*models.Profile, error)
	// List returns every stored profile. Order is unspecified.
	List(ctx context.Context) ([]*models.Profile, error)
	// UpdateSyncState patches the sync-owned fields of a stored profile.
	// It reports false when the profile changed in a way that makes st stale.
	UpdateSyncState(ctx context.Context, id snowflake.ID, st models.SyncState) (bool, error)
}
