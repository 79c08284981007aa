//go:build unit

package payload_test

import (
	"strings"
	"testing"

	"payscan/internal/domain/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validSegwitAddr = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"
	validLegacyAddr = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
)

func TestParseBip21_AmountToSatoshis(t *testing.T) {
	p := payload.Parse("bitcoin:" + validSegwitAddr + "?amount=0.001")

	require.Equal(t, payload.TypeBip21, p.Type)
	require.True(t, p.FormatValid)

	b, ok := p.Data.(*payload.Bip21)
	require.True(t, ok)
	assert.Equal(t, validSegwitAddr, b.Address)
	assert.True(t, b.AddressValid)
	assert.Equal(t, "mainnet", b.Network)
	require.NotNil(t, b.AmountSats)
	assert.Equal(t, int64(100000), *b.AmountSats)
	require.NotNil(t, b.AmountBTC)
	assert.InDelta(t, 0.001, *b.AmountBTC, 1e-12)
	assert.Empty(t, p.Warnings)
}

func TestParseBip21_AddressExtraction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no query", "bitcoin:" + validLegacyAddr, validLegacyAddr},
		{"with query", "bitcoin:" + validLegacyAddr + "?label=shop", validLegacyAddr},
		{"empty query", "bitcoin:" + validSegwitAddr + "?", validSegwitAddr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := payload.Parse(tt.input)
			require.True(t, p.FormatValid)
			b := p.Data.(*payload.Bip21)
			assert.Equal(t, tt.want, b.Address)
		})
	}
}

func TestParseBip21_InvalidChecksumKeepsFormatValid(t *testing.T) {
	badAddr := validLegacyAddr[:len(validLegacyAddr)-1] + "X"
	p := payload.Parse("bitcoin:" + badAddr)

	require.True(t, p.FormatValid, "URI shape is still valid")
	b := p.Data.(*payload.Bip21)
	assert.False(t, b.AddressValid)
}

func TestParseBip21_MalformedAmountIsDroppedWithWarning(t *testing.T) {
	tests := []string{"abc", "-1", "1e99", "21000001", "NaN"}
	for _, amount := range tests {
		t.Run(amount, func(t *testing.T) {
			p := payload.Parse("bitcoin:" + validSegwitAddr + "?amount=" + amount)

			require.True(t, p.FormatValid)
			b := p.Data.(*payload.Bip21)
			assert.Nil(t, b.AmountSats)
			require.NotEmpty(t, p.Warnings)
			assert.Contains(t, p.Warnings[0], "invalid amount")
		})
	}
}

func TestParseBip21_DuplicateKeysLastWins(t *testing.T) {
	p := payload.Parse("bitcoin:" + validSegwitAddr + "?amount=0.5&amount=0.25&label=a&label=b")

	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bip21)
	require.NotNil(t, b.AmountSats)
	assert.Equal(t, int64(25000000), *b.AmountSats)
	require.NotNil(t, b.Label)
	assert.Equal(t, "b", *b.Label)
}

func TestParseBip21_UnknownParamsIgnored(t *testing.T) {
	p := payload.Parse("bitcoin:" + validSegwitAddr + "?foo=bar&req-something=1")

	require.True(t, p.FormatValid)
	assert.Empty(t, p.Warnings)
}

func TestParseBip21_PaymentRequestURLDomain(t *testing.T) {
	p := payload.Parse("bitcoin:" + validSegwitAddr + "?r=https%3A%2F%2Fmerchant.example.com%2Freq")

	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bip21)
	require.NotNil(t, b.PaymentRequestURL)

	domain, ok := p.VerifyDomain()
	require.True(t, ok)
	assert.Equal(t, "merchant.example.com", domain)
}

func TestParseBip21_NoAddress(t *testing.T) {
	p := payload.Parse("bitcoin:?amount=1")

	assert.Equal(t, payload.TypeBip21, p.Type)
	assert.False(t, p.FormatValid)
}

func TestParseBip21_IdentifierIsLowercasedAddress(t *testing.T) {
	p := payload.Parse("bitcoin:" + validLegacyAddr)
	id, ok := p.Identifier()
	require.True(t, ok)
	assert.Equal(t, strings.ToLower(validLegacyAddr), id)
}
