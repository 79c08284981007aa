//go:build unit

package payload_test

import (
	"testing"

	"payscan/internal/domain/payload"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	allValid := payload.VerificationResult{
		FormatValid:   true,
		CryptoValid:   true,
		DomainValid:   true,
		ProviderKnown: true,
	}

	tests := []struct {
		name   string
		mutate func(vr *payload.VerificationResult)
		usage  int64
		want   payload.AuthStatus
	}{
		{"all checks pass", nil, 1, payload.StatusVerified},
		{"zero usage still verified", nil, 0, payload.StatusVerified},
		{"format invalid", func(vr *payload.VerificationResult) { vr.FormatValid = false }, 1, payload.StatusInvalid},
		{"format invalid overrides everything", func(vr *payload.VerificationResult) {
			vr.FormatValid = false
			vr.CryptoValid = false
		}, 10, payload.StatusInvalid},
		{"crypto failed", func(vr *payload.VerificationResult) { vr.CryptoValid = false }, 1, payload.StatusSuspicious},
		{"domain failed", func(vr *payload.VerificationResult) { vr.DomainValid = false }, 1, payload.StatusSuspicious},
		{"provider unknown", func(vr *payload.VerificationResult) { vr.ProviderKnown = false }, 1, payload.StatusSuspicious},
		{"usage below threshold", nil, 2, payload.StatusVerified},
		{"usage at threshold", nil, 3, payload.StatusSuspicious},
		{"usage above threshold", nil, 7, payload.StatusSuspicious},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr := allValid
			if tt.mutate != nil {
				tt.mutate(&vr)
			}
			assert.Equal(t, tt.want, payload.Aggregate(vr, tt.usage))
		})
	}
}

// Invalid iff format_valid is false, for every combination of the other flags.
func TestAggregate_InvalidIffFormatInvalid(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		for _, formatValid := range []bool{true, false} {
			vr := payload.VerificationResult{
				FormatValid:   formatValid,
				CryptoValid:   mask&1 != 0,
				DomainValid:   mask&2 != 0,
				ProviderKnown: mask&4 != 0,
			}
			got := payload.Aggregate(vr, 1)
			if formatValid {
				assert.NotEqual(t, payload.StatusInvalid, got)
			} else {
				assert.Equal(t, payload.StatusInvalid, got)
			}
		}
	}
}
