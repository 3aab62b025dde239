package service

import (
	"context"

	"catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
)

// GuildAPI is the slice of the guild REST surface the role sync needs.
// Implementations return models.ErrMemberNotFound (possibly wrapped) when a
// member is not in the guild.
type GuildAPI interface {
	ListGuildRoles(ctx context.Context) ([]models.GuildRole, error)
	CreateGuildRole(ctx context.Context, params models.CreateRoleParams) (models.GuildRole, error)
	GetMemberRoles(ctx context.Context, member models.MemberRef) ([]snowflake.ID, error)
	AddMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error
	RemoveMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error
	FindMemberByUsername(ctx context.Context, username string) (models.MemberRef, error)
}

// ProfileStore is read by the sync pass. The pass writes back only the
// sync-owned fields; everything else belongs to other flows.
type ProfileStore interface {
	List(ctx context.Context) ([]*usermodels.Profile, error)
	GetByID(ctx context.Context, id snowflake.ID) (*usermodels.Profile, error)
	UpdateSyncState(ctx context.Context, id snowflake.ID, st usermodels.SyncState) (bool, error)
}

// ChainReader returns the NFT balance held by a wallet.
type ChainReader interface {
	NFTBalance(ctx context.Context, wallet string) (int64, error)
}
