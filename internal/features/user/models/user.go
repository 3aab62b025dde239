package models

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// RoleStatus tracks whether the NFT-tier role picked at wallet submission
// has been granted in the guild.
type RoleStatus string

const (
	RoleStatusNone     RoleStatus = ""
	RoleStatusPending  RoleStatus = "pending"
	RoleStatusAssigned RoleStatus = "assigned"
)

// Profile is the stored state for one Discord user.
// @Description Stored user profile
type Profile struct {
	DiscordID     snowflake.ID   `json:"discord_id" swaggertype:"string" example:"80351110224678912"`
	Username      string         `json:"username" example:"whisker.cat"`
	Avatar        string         `json:"avatar,omitempty" example:"a_1234abcd"`
	ClaimedBadges []int          `json:"claimed_badges,omitempty" example:"500,1000"`
	LinkedRoleIDs []snowflake.ID `json:"linked_role_ids,omitempty" swaggertype:"array,string"`
	WalletAddress string         `json:"wallet_address,omitempty" example:"0xfa28a33f198dc84454881fbb14c9d69dea97efdb"`
	Contribution  string         `json:"contribution,omitempty"`
	NFTCount      int            `json:"nft_count"`
	NFTRoleName   string         `json:"nft_role_name,omitempty" example:"Big Whisker"`
	RoleStatus    RoleStatus     `json:"role_status,omitempty" enums:"pending,assigned"`
	WalletAt      *time.Time     `json:"wallet_submitted_at,omitempty"`
	SyncedAt      *time.Time     `json:"synced_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// SyncState is the part of a profile the role sync writes back. WalletAddress
// and WalletAt are the values the sync read; the update only applies while
// the stored wallet submission is still that one.
type SyncState struct {
	WalletAddress string
	WalletAt      *time.Time
	NFTCount      int
	NFTRoleName   string
	RoleStatus    RoleStatus
	SyncedAt      time.Time
}

// ApplySyncState copies the sync-owned fields onto p. It reports false and
// leaves p untouched when the wallet was resubmitted since st was taken.
func (p *Profile) ApplySyncState(st SyncState) bool {
	if p.WalletAddress != st.WalletAddress || !sameTime(p.WalletAt, st.WalletAt) {
		return false
	}
	synced := st.SyncedAt
	p.NFTCount = st.NFTCount
	p.NFTRoleName = st.NFTRoleName
	p.RoleStatus = st.RoleStatus
	p.SyncedAt = &synced
	return true
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (p *Profile) HasWallet() bool {
	return p.WalletAddress != ""
}

// AvatarURL returns the CDN url for the avatar, or "" when none is set.
func (p *Profile) AvatarURL() string {
	if p.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", p.DiscordID, p.Avatar)
}

// ProfileResponse is the public view returned by /users/me.
// @Description Public user profile
type ProfileResponse struct {
	DiscordID     string     `json:"discord_id" example:"80351110224678912"`
	Username      string     `json:"username" example:"whisker.cat"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	ClaimedBadges []int      `json:"claimed_badges"`
	WalletAddress string     `json:"wallet_address,omitempty"`
	NFTCount      int        `json:"nft_count"`
	NFTRoleName   string     `json:"nft_role_name,omitempty"`
	RoleStatus    RoleStatus `json:"role_status,omitempty"`
	IsAdmin       bool       `json:"is_admin"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (p *Profile) ToResponse(isAdmin bool) *ProfileResponse {
	badges := p.ClaimedBadges
	if badges == nil {
		badges = []int{}
	}
	return &ProfileResponse{
		DiscordID:     p.DiscordID.String(),
		Username:      p.Username,
		AvatarURL:     p.AvatarURL(),
		ClaimedBadges: badges,
		WalletAddress: p.WalletAddress,
		NFTCount:      p.NFTCount,
		NFTRoleName:   p.NFTRoleName,
		RoleStatus:    p.RoleStatus,
		IsAdmin:       isAdmin,
		CreatedAt:     p.CreatedAt,
	}
}

// UpdateBadgesRequest sets claimed badge milestones and linked roles.
// @Description Badge claim update
type UpdateBadgesRequest struct {
	ClaimedBadges []int    `json:"claimed_badges" binding:"required" example:"500,1000"`
	LinkedRoleIDs []string `json:"linked_role_ids" example:"1372582503407157368"`
}
