package models

import (
	"strings"
	"time"

	usermodels "catcents-backend/internal/features/user/models"
)

// SubmitWalletRequest links a wallet to the signed-in user.
type SubmitWalletRequest struct {
	Address      string `json:"address" binding:"required" example:"0xfa28a33f198dc84454881fbb14c9d69dea97efdb"`
	Contribution string `json:"contribution" example:"I draw the weekly cat comics"`
}

// Normalized returns the address trimmed of surrounding space.
func (r *SubmitWalletRequest) Normalized() string {
	return strings.TrimSpace(r.Address)
}

// WalletResponse is the stored submission.
// @Description Wallet submission
type WalletResponse struct {
	Address      string                `json:"address" example:"0xfa28a33f198dc84454881fbb14c9d69dea97efdb"`
	Contribution string                `json:"contribution,omitempty"`
	NFTCount     int                   `json:"nft_count" example:"5"`
	NFTRoleName  string                `json:"nft_role_name,omitempty" example:"Big Whisker"`
	RoleStatus   usermodels.RoleStatus `json:"role_status,omitempty" enums:"pending,assigned"`
	SubmittedAt  *time.Time            `json:"submitted_at,omitempty"`
}

func FromProfile(p *usermodels.Profile) *WalletResponse {
	return &WalletResponse{
		Address:      p.WalletAddress,
		Contribution: p.Contribution,
		NFTCount:     p.NFTCount,
		NFTRoleName:  p.NFTRoleName,
		RoleStatus:   p.RoleStatus,
		SubmittedAt:  p.WalletAt,
	}
}
