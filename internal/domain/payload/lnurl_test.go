//go:build unit

package payload_test

import (
	"strings"
	"testing"

	"payscan/internal/domain/payload"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeLnurl(t *testing.T, url string) string {
	t.Helper()
	groups, err := bech32.ConvertBits([]byte(url), 8, 5, true)
	require.NoError(t, err)
	encoded, err := bech32.Encode("lnurl", groups)
	require.NoError(t, err)
	return encoded
}

func TestParseLnurl_Bech32(t *testing.T) {
	url := "https://service.example.com/lnurlp/bob"
	encoded := encodeLnurl(t, url)

	p := payload.Parse(encoded)
	require.Equal(t, payload.TypeLnurl, p.Type)
	require.True(t, p.FormatValid)

	l, ok := p.Data.(*payload.Lnurl)
	require.True(t, ok)
	assert.Equal(t, url, l.URL)
	assert.Equal(t, "service.example.com", l.Domain)
	assert.Equal(t, "payRequest", l.Subtype)
	assert.Equal(t, encoded, l.Encoded)
}

func TestParseLnurl_Bech32Uppercase(t *testing.T) {
	url := "https://service.example.com/lnurlw/claim"
	encoded := strings.ToUpper(encodeLnurl(t, url))

	p := payload.Parse(encoded)
	require.True(t, p.FormatValid)
	l := p.Data.(*payload.Lnurl)
	assert.Equal(t, url, l.URL)
	assert.Equal(t, "withdrawRequest", l.Subtype)
}

func TestParseLnurl_DirectURL(t *testing.T) {
	url := "https://walletofsatoshi.com/.well-known/lnurlp/alice"

	p := payload.Parse(url)
	require.Equal(t, payload.TypeLnurl, p.Type)
	require.True(t, p.FormatValid)

	l := p.Data.(*payload.Lnurl)
	assert.Equal(t, url, l.URL)
	assert.Equal(t, "walletofsatoshi.com", l.Domain)
	assert.Equal(t, "payRequest", l.Subtype)

	domain, ok := p.VerifyDomain()
	require.True(t, ok)
	assert.Equal(t, "walletofsatoshi.com", domain)
}

func TestParseLnurl_WrappedHTTPIsInvalid(t *testing.T) {
	encoded := encodeLnurl(t, "http://insecure.example.com/lnurlp/bob")

	p := payload.Parse(encoded)
	assert.Equal(t, payload.TypeLnurl, p.Type)
	assert.False(t, p.FormatValid)
	assert.NotEmpty(t, p.Warnings)
}

func TestParseLnurl_BadChecksum(t *testing.T) {
	encoded := encodeLnurl(t, "https://service.example.com/lnurlp/bob")
	mutated := encoded[:len(encoded)-1]
	if strings.HasSuffix(encoded, "q") {
		mutated += "p"
	} else {
		mutated += "q"
	}

	p := payload.Parse(mutated)
	assert.False(t, p.FormatValid)
}
