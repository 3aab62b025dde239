package models

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// MintTier is the mint allocation a role grants.
type MintTier string

const (
	MintTierGTD  MintTier = "GTD"
	MintTierFCFS MintTier = "FCFS"
)

const NotEligibleMessage = "You're not eligible for a mainnet mint. Join our Discord & vibe: https://discord.com/invite/TXPbt7ztMC"

// EligibilityRole is a guild role that qualifies a member for the mint.
// Lower Rank is higher in the hierarchy.
type EligibilityRole struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Color string       `json:"color"`
	Tier  MintTier     `json:"tier"`
	Rank  int          `json:"rank"`
}

// Message renders the dashboard message for this role.
func (e EligibilityRole) Message() string {
	return fmt.Sprintf("You're eligible for a %s mint on the mainnet with role: %s.", e.Tier, e.Name)
}

// EligibilityMessage renders the message for an optional highest role.
func EligibilityMessage(highest *EligibilityRole) string {
	if highest == nil {
		return NotEligibleMessage
	}
	return highest.Message()
}
