package models

import (
	"time"

	rolemodels "catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"
)

// CheckRoleRequest is the body of POST /check-role.
type CheckRoleRequest struct {
	ForceRefresh bool `json:"forceRefresh" example:"false"`
}

// RoleCheck is the result of looking up a member's eligibility roles.
// @Description Eligibility roles held in the guild
type RoleCheck struct {
	InGuild     bool                         `json:"in_guild"`
	Roles       []rolemodels.EligibilityRole `json:"roles"`
	HighestRole *rolemodels.EligibilityRole  `json:"highest_role,omitempty"`
	Message     string                       `json:"message"`
	CheckedAt   time.Time                    `json:"checked_at"`
	Cached      bool                         `json:"cached"`
}

func (r *RoleCheck) Eligible() bool {
	return r.HighestRole != nil
}

// Dashboard combines the guild role check with the NFT role picked at
// wallet submission that may not be granted yet.
// @Description Dashboard view
type Dashboard struct {
	Profile     *usermodels.ProfileResponse `json:"profile"`
	Check       *RoleCheck                  `json:"check"`
	NFTRole     *rolemodels.EligibilityRole `json:"nft_role,omitempty"`
	HighestRole *rolemodels.EligibilityRole `json:"highest_role,omitempty"`
	Eligible    bool                        `json:"eligible"`
	Message     string                      `json:"message"`
}
