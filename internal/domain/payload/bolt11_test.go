//go:build unit

package payload_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"payscan/internal/domain/payload"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInvoiceKey, _ = btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x42}, 32))

const testInvoiceTimestamp = int64(1700000000)

// fixedGroups writes v big-endian into exactly n 5-bit groups.
func fixedGroups(v uint64, n int) []byte {
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v & 0x1f)
		v >>= 5
	}
	return out
}

func minimalGroups(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var out []byte
	for v > 0 {
		out = append([]byte{byte(v & 0x1f)}, out...)
		v >>= 5
	}
	return out
}

func taggedField(t *testing.T, tag byte, data []byte) []byte {
	t.Helper()
	require.Less(t, len(data), 1024)
	out := []byte{tag, byte(len(data) >> 5), byte(len(data) & 0x1f)}
	return append(out, data...)
}

func bytesToGroups(t *testing.T, raw []byte) []byte {
	t.Helper()
	groups, err := bech32.ConvertBits(raw, 8, 5, true)
	require.NoError(t, err)
	return groups
}

// signInvoice assembles hrp + data part, signs the digest with the test key,
// and bech32-encodes the whole invoice.
func signInvoice(t *testing.T, hrp string, data []byte) string {
	t.Helper()

	msg, err := bech32.ConvertBits(data, 5, 8, true)
	require.NoError(t, err)
	digest := sha256.Sum256(append([]byte(hrp), msg...))

	compact := ecdsa.SignCompact(testInvoiceKey, digest[:], true)
	sig := make([]byte, 65)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0] - 27 - 4

	sigGroups, err := bech32.ConvertBits(sig, 8, 5, true)
	require.NoError(t, err)
	require.Len(t, sigGroups, 104)

	invoice, err := bech32.Encode(hrp, append(append([]byte{}, data...), sigGroups...))
	require.NoError(t, err)
	return invoice
}

func buildTestInvoice(t *testing.T, hrp string, paymentHash [32]byte, extraFields ...[]byte) string {
	t.Helper()
	data := fixedGroups(uint64(testInvoiceTimestamp), 7)
	data = append(data, taggedField(t, 1, bytesToGroups(t, paymentHash[:]))...)
	for _, f := range extraFields {
		data = append(data, f...)
	}
	return signInvoice(t, hrp, data)
}

func TestParseBolt11_RoundTrip(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("payment preimage"))
	desc := "coffee beans"
	invoice := buildTestInvoice(t, "lnbc2500u", paymentHash,
		taggedField(t, 13, bytesToGroups(t, []byte(desc))),
	)

	p := payload.Parse(invoice)
	require.Equal(t, payload.TypeBolt11, p.Type)
	require.True(t, p.FormatValid)

	b, ok := p.Data.(*payload.Bolt11)
	require.True(t, ok)

	assert.Equal(t, "mainnet", b.Network)
	require.NotNil(t, b.AmountMsat)
	assert.Equal(t, uint64(250_000_000), *b.AmountMsat)
	require.NotNil(t, b.AmountSats)
	assert.Equal(t, int64(250_000), *b.AmountSats)
	assert.Equal(t, testInvoiceTimestamp, b.Timestamp)
	assert.Equal(t, hex.EncodeToString(paymentHash[:]), b.PaymentHash)
	require.NotNil(t, b.Description)
	assert.Equal(t, desc, *b.Description)
	assert.Equal(t, int64(3600), b.ExpirySeconds)
	assert.Equal(t, time.Unix(testInvoiceTimestamp+3600, 0), b.ExpiresAt())
}

func TestParseBolt11_SignatureRecovery(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("x"))
	invoice := buildTestInvoice(t, "lnbc", paymentHash)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	recovered, err := b.RecoverPayee()
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(testInvoiceKey.PubKey().SerializeCompressed()), recovered)
}

// The "1 cup coffee" invoice published alongside the BOLT11 format. Unlike the
// built invoices above it was produced by an independent encoder, so it also
// pins down timestamp, hash, and key-recovery byte layout.
func TestParseBolt11_PublishedInvoice(t *testing.T) {
	const invoice = "lnbc2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4jsxqzpuaztrnwngzn3kdzw5hydlzf03qdgm2hdq27cqv3agm2awhz5se903vruatfhq77w3ls4evs3ch9zw97j25emudupq63nyw24cg27h2rspfj9srp"

	p := payload.Parse(invoice)
	require.Equal(t, payload.TypeBolt11, p.Type)
	require.True(t, p.FormatValid, "warnings: %v", p.Warnings)

	b, ok := p.Data.(*payload.Bolt11)
	require.True(t, ok)

	assert.Equal(t, "mainnet", b.Network)
	require.NotNil(t, b.AmountMsat)
	assert.Equal(t, uint64(250_000_000), *b.AmountMsat)
	require.NotNil(t, b.AmountSats)
	assert.Equal(t, int64(250_000), *b.AmountSats)
	assert.Equal(t, int64(1496314658), b.Timestamp)
	assert.Equal(t, "0001020304050607080900010203040506070809000102030405060708090102", b.PaymentHash)
	require.NotNil(t, b.Description)
	assert.Equal(t, "1 cup coffee", *b.Description)
	assert.Equal(t, int64(60), b.ExpirySeconds)

	recovered, err := b.RecoverPayee()
	require.NoError(t, err)
	assert.Equal(t, "03e7156ae33b0a208d0744199163177e909e80176e55d97a2f221ede0f934dd9ad", recovered)
}

func TestParseBolt11_PayeeNodeIDField(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("n-field"))
	nodeKey := testInvoiceKey.PubKey().SerializeCompressed()
	invoice := buildTestInvoice(t, "lnbc", paymentHash,
		taggedField(t, 19, bytesToGroups(t, nodeKey)),
	)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	require.NotNil(t, b.PayeeNodeID)
	assert.Equal(t, hex.EncodeToString(nodeKey), *b.PayeeNodeID)

	recovered, err := b.RecoverPayee()
	require.NoError(t, err)
	assert.Equal(t, *b.PayeeNodeID, recovered)
}

func TestParseBolt11_ExpiryField(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("expiry"))
	invoice := buildTestInvoice(t, "lntb", paymentHash,
		taggedField(t, 6, minimalGroups(7200)),
	)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	assert.Equal(t, "testnet", b.Network)
	assert.Equal(t, int64(7200), b.ExpirySeconds)
	assert.Equal(t, time.Unix(testInvoiceTimestamp+7200, 0), b.ExpiresAt())
}

func TestParseBolt11_Amounts(t *testing.T) {
	tests := []struct {
		hrp      string
		network  string
		wantMsat *uint64
		invalid  bool
	}{
		{hrp: "lnbc", network: "mainnet", wantMsat: nil},
		{hrp: "lnbc1", network: "mainnet", wantMsat: ptrUint64(100_000_000_000)},
		{hrp: "lnbc20m", network: "mainnet", wantMsat: ptrUint64(2_000_000_000)},
		{hrp: "lnbc2500u", network: "mainnet", wantMsat: ptrUint64(250_000_000)},
		{hrp: "lnbc250n", network: "mainnet", wantMsat: ptrUint64(25_000)},
		{hrp: "lnbc10p", network: "mainnet", wantMsat: ptrUint64(1)},
		{hrp: "lnbcrt5u", network: "regtest", wantMsat: ptrUint64(500_000)},
		{hrp: "lntb100n", network: "testnet", wantMsat: ptrUint64(10_000)},
		{hrp: "lnbc25p", invalid: true},   // sub-millisatoshi
		{hrp: "lnbc05u", invalid: true},   // leading zero
		{hrp: "lnbc2500x", invalid: true}, // unknown multiplier
	}

	paymentHash := sha256.Sum256([]byte("amounts"))
	for _, tt := range tests {
		t.Run(tt.hrp, func(t *testing.T) {
			invoice := buildTestInvoice(t, tt.hrp, paymentHash)
			p := payload.Parse(invoice)

			if tt.invalid {
				assert.False(t, p.FormatValid)
				return
			}
			require.True(t, p.FormatValid)
			b := p.Data.(*payload.Bolt11)
			assert.Equal(t, tt.network, b.Network)
			if tt.wantMsat == nil {
				assert.Nil(t, b.AmountMsat)
			} else {
				require.NotNil(t, b.AmountMsat)
				assert.Equal(t, *tt.wantMsat, *b.AmountMsat)
			}
		})
	}
}

func TestParseBolt11_RouteHints(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("routing"))

	hop := func(seed byte, scid uint64) []byte {
		raw := bytes.Repeat([]byte{seed}, 33)
		raw = append(raw, 0, 0, 0, 0, 0, 0, 0, 0)
		binary.BigEndian.PutUint64(raw[33:41], scid)
		raw = append(raw, 0, 0, 3, 232) // fee base 1000 msat
		raw = append(raw, 0, 0, 0, 100) // fee proportional 100 ppm
		raw = append(raw, 0, 40)        // cltv delta 40
		return raw
	}
	field := append(hop(0x02, 0x0102030405060708), hop(0x03, 0x1112131415161718)...)
	invoice := buildTestInvoice(t, "lnbc", paymentHash,
		taggedField(t, 3, bytesToGroups(t, field)),
	)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	want := []payload.RouteHint{
		{
			NodeID:          hex.EncodeToString(bytes.Repeat([]byte{0x02}, 33)),
			ShortChannelID:  0x0102030405060708,
			FeeBaseMsat:     1000,
			FeeProportional: 100,
			CLTVExpiryDelta: 40,
		},
		{
			NodeID:          hex.EncodeToString(bytes.Repeat([]byte{0x03}, 33)),
			ShortChannelID:  0x1112131415161718,
			FeeBaseMsat:     1000,
			FeeProportional: 100,
			CLTVExpiryDelta: 40,
		},
	}
	if diff := cmp.Diff(want, b.RouteHints); diff != "" {
		t.Errorf("route hints mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBolt11_SegwitFallbackAddress(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("fallback"))

	program := bytes.Repeat([]byte{0x7f}, 20)
	field := append([]byte{0}, bytesToGroups(t, program)...)
	invoice := buildTestInvoice(t, "lnbc", paymentHash,
		taggedField(t, 9, field),
	)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	require.NotNil(t, b.FallbackAddress)
	assert.True(t, strings.HasPrefix(*b.FallbackAddress, "bc1q"), "got %s", *b.FallbackAddress)
}

func TestParseBolt11_MissingPaymentHash(t *testing.T) {
	data := fixedGroups(uint64(testInvoiceTimestamp), 7)
	data = append(data, taggedField(t, 13, bytesToGroups(t, []byte("no p field")))...)
	invoice := signInvoice(t, "lnbc", data)

	p := payload.Parse(invoice)
	assert.Equal(t, payload.TypeBolt11, p.Type)
	assert.False(t, p.FormatValid)
}

func TestParseBolt11_BadChecksum(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("checksum"))
	invoice := buildTestInvoice(t, "lnbc", paymentHash)

	// Flip one character in the data part
	mutated := []byte(invoice)
	pos := len("lnbc1") + 10
	if mutated[pos] == 'q' {
		mutated[pos] = 'p'
	} else {
		mutated[pos] = 'q'
	}

	p := payload.Parse(string(mutated))
	assert.False(t, p.FormatValid)
}

func TestParseBolt11_TamperedFieldChangesRecoveredKey(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("tamper"))
	otherHash := sha256.Sum256([]byte("other"))

	// Sign over one payment hash, then swap in another and re-encode with a
	// fresh checksum. The signature no longer commits to the signing key.
	data := fixedGroups(uint64(testInvoiceTimestamp), 7)
	data = append(data, taggedField(t, 1, bytesToGroups(t, paymentHash[:]))...)

	msg, err := bech32.ConvertBits(data, 5, 8, true)
	require.NoError(t, err)
	digest := sha256.Sum256(append([]byte("lnbc"), msg...))
	compact := ecdsa.SignCompact(testInvoiceKey, digest[:], true)
	sig := make([]byte, 65)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0] - 27 - 4
	sigGroups, err := bech32.ConvertBits(sig, 8, 5, true)
	require.NoError(t, err)

	tampered := fixedGroups(uint64(testInvoiceTimestamp), 7)
	tampered = append(tampered, taggedField(t, 1, bytesToGroups(t, otherHash[:]))...)
	invoice, err := bech32.Encode("lnbc", append(tampered, sigGroups...))
	require.NoError(t, err)

	p := payload.Parse(invoice)
	require.True(t, p.FormatValid)
	b := p.Data.(*payload.Bolt11)

	recovered, err := b.RecoverPayee()
	if err == nil {
		assert.NotEqual(t, hex.EncodeToString(testInvoiceKey.PubKey().SerializeCompressed()), recovered)
	}
}

func TestParseBolt11_Identifier(t *testing.T) {
	paymentHash := sha256.Sum256([]byte("ident"))
	invoice := buildTestInvoice(t, "lnbc", paymentHash)

	p := payload.Parse(strings.ToUpper(invoice))
	require.True(t, p.FormatValid)

	id, ok := p.Identifier()
	require.True(t, ok)
	assert.Equal(t, invoice, id)
}

func ptrUint64(v uint64) *uint64 { return &v }
