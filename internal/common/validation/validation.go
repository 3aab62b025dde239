package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const MaxContributionLength = 1000

var walletAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidateWalletAddress checks an EVM address in 0x-prefixed hex form.
func ValidateWalletAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}
	if !walletAddressRegex.MatchString(address) {
		return fmt.Errorf("wallet address must be 0x followed by 40 hex characters")
	}
	return nil
}

// ValidateContribution checks the free-text answer sent with a wallet.
// It is optional.
func ValidateContribution(text string) error {
	if len(strings.TrimSpace(text)) > MaxContributionLength {
		return fmt.Errorf("contribution cannot exceed %d characters", MaxContributionLength)
	}
	return nil
}
