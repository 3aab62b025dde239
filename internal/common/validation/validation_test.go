package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWalletAddress(t *testing.T) {
	cases := []struct {
		name    string
		address string
		ok      bool
	}{
		{"lowercase", "0xfa28a33f198dc84454881fbb14c9d69dea97efdb", true},
		{"mixed case", "0xFA28a33f198dC84454881fbB14c9d69dEA97efdb", true},
		{"surrounding space", "  0xfa28a33f198dc84454881fbb14c9d69dea97efdb ", true},
		{"empty", "", false},
		{"no prefix", "fa28a33f198dc84454881fbb14c9d69dea97efdb00", false},
		{"short", "0xfa28a33f", false},
		{"non hex", "0xzz28a33f198dc84454881fbb14c9d69dea97efdb", false},
		{"too long", "0xfa28a33f198dc84454881fbb14c9d69dea97efdb1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWalletAddress(tc.address)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateContribution(t *testing.T) {
	assert.NoError(t, ValidateContribution(""))
	assert.NoError(t, ValidateContribution("I draw cats for the community"))
	assert.Error(t, ValidateContribution(strings.Repeat("a", MaxContributionLength+1)))
}
