package models

import (
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

// Category groups managed roles by how they are earned.
type Category string

const (
	CategoryBadge   Category = "badge"
	CategoryNFTTier Category = "nft_tier"
	CategoryOther   Category = "other"
)

// RoleDefinition is one managed role. Badge roles carry Milestone,
// NFT-tier roles carry Threshold.
type RoleDefinition struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Category  Category     `json:"category"`
	Milestone int          `json:"milestone,omitempty"`
	Threshold int          `json:"threshold,omitempty"`
}

// GuildRole is a role as listed by the guild.
type GuildRole struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Color int          `json:"color"`
}

type CreateRoleParams struct {
	Name  string
	Color int
}

// MemberRef identifies a guild member.
type MemberRef struct {
	UserID   snowflake.ID `json:"user_id"`
	Username string       `json:"username,omitempty"`
}

// DesiredSet is the computed target for one member. NFTTier is nil when no
// tier applies.
type DesiredSet struct {
	Roles   []RoleDefinition
	NFTTier *RoleDefinition
}

var ErrMemberNotFound = errors.New("member not found in guild")
