package payload

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// BOLT11 field tags (values of the 5-bit type group).
const (
	tagPaymentHash     = 1  // p
	tagRouting         = 3  // r
	tagExpiry          = 6  // x
	tagFallback        = 9  // f
	tagDescription     = 13 // d
	tagPayeeNodeID     = 19 // n
	tagDescriptionHash = 23 // h
	tagMinFinalCLTV    = 24 // c
)

const (
	timestampGroups = 7   // 35 bits
	signatureGroups = 104 // 65 bytes: r || s || recovery id
	defaultExpiry   = 3600
)

var errNoPaymentHash = errors.New("missing payment hash field")

// parseBolt11 bech32-decodes a Lightning invoice into its human-readable
// prefix and tagged data part, keeping the signature trailer and signing
// digest around for later public-key recovery.
func parseBolt11(content string) Parsed {
	p := Parsed{Type: TypeBolt11, Raw: content}

	hrp, data, err := bech32.DecodeNoLimit(content)
	if err != nil {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "invalid invoice encoding: "+err.Error())
		return p
	}

	network, amountMsat, err := parseInvoiceHRP(hrp)
	if err != nil {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, err.Error())
		return p
	}

	if len(data) < timestampGroups+signatureGroups {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "invoice data part too short")
		return p
	}

	b := &Bolt11{
		Invoice:       strings.ToLower(content),
		Network:       network,
		ExpirySeconds: defaultExpiry,
	}
	if amountMsat != nil {
		b.AmountMsat = amountMsat
		sats := int64(*amountMsat / 1000)
		b.AmountSats = &sats
	}

	b.Timestamp = int64(intFromGroups(data[:timestampGroups]))
	tagged := data[timestampGroups : len(data)-signatureGroups]
	if err := b.parseTaggedFields(tagged); err != nil {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "malformed invoice: "+err.Error())
		return p
	}
	if b.PaymentHash == "" {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, errNoPaymentHash.Error())
		return p
	}

	sigBytes, err := bech32.ConvertBits(data[len(data)-signatureGroups:], 5, 8, false)
	if err != nil || len(sigBytes) != 65 || sigBytes[64] > 3 {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "malformed invoice signature")
		return p
	}
	copy(b.signature[:], sigBytes)

	// The signed message is the hrp bytes followed by the data part without
	// the signature, repacked from 5-bit groups with zero padding.
	msgTail, err := bech32.ConvertBits(data[:len(data)-signatureGroups], 5, 8, true)
	if err != nil {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "malformed invoice data part")
		return p
	}
	b.sigHash = sha256.Sum256(append([]byte(hrp), msgTail...))

	p.Data = b
	p.FormatValid = true
	return p
}

// RecoverPayee recovers the issuing node's public key from the invoice's
// recoverable signature and returns it compressed, hex-encoded. Failure means
// the signature does not commit to any well-formed key.
func (b *Bolt11) RecoverPayee() (string, error) {
	compact := make([]byte, 65)
	compact[0] = 27 + 4 + b.signature[64] // compressed-key recovery header
	copy(compact[1:33], b.signature[:32])
	copy(compact[33:], b.signature[32:64])

	pub, _, err := ecdsa.RecoverCompact(compact, b.sigHash[:])
	if err != nil {
		return "", fmt.Errorf("signature recovery failed: %w", err)
	}
	return hex.EncodeToString(pub.SerializeCompressed()), nil
}

// ExpiresAt is the invoice deadline: creation timestamp plus the x field
// (or the BOLT11 default of one hour).
func (b *Bolt11) ExpiresAt() time.Time {
	return time.Unix(b.Timestamp+b.ExpirySeconds, 0)
}

// parseInvoiceHRP splits the human-readable part into network and optional
// amount. The amount is digits plus an optional multiplier (m/u/n/p) and
// converts to millisatoshis.
func parseInvoiceHRP(hrp string) (string, *uint64, error) {
	var network, amount string
	switch {
	case strings.HasPrefix(hrp, "lnbcrt"):
		network, amount = "regtest", hrp[6:]
	case strings.HasPrefix(hrp, "lntb"):
		network, amount = "testnet", hrp[4:]
	case strings.HasPrefix(hrp, "lnbc"):
		network, amount = "mainnet", hrp[4:]
	default:
		return "", nil, fmt.Errorf("unknown invoice prefix %q", hrp)
	}
	if amount == "" {
		return network, nil, nil
	}

	multiplier := byte(0)
	if c := amount[len(amount)-1]; c < '0' || c > '9' {
		multiplier = c
		amount = amount[:len(amount)-1]
	}
	if amount == "" || (len(amount) > 1 && amount[0] == '0') {
		return "", nil, fmt.Errorf("invalid invoice amount in %q", hrp)
	}
	n, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid invoice amount in %q", hrp)
	}

	var msat uint64
	switch multiplier {
	case 0: // whole bitcoins
		if n > (1<<64-1)/100_000_000_000 {
			return "", nil, fmt.Errorf("invoice amount overflow in %q", hrp)
		}
		msat = n * 100_000_000_000
	case 'm':
		if n > (1<<64-1)/100_000_000 {
			return "", nil, fmt.Errorf("invoice amount overflow in %q", hrp)
		}
		msat = n * 100_000_000
	case 'u':
		msat = n * 100_000
	case 'n':
		msat = n * 100
	case 'p':
		if n%10 != 0 {
			return "", nil, fmt.Errorf("sub-millisatoshi amount in %q", hrp)
		}
		msat = n / 10
	default:
		return "", nil, fmt.Errorf("unknown amount multiplier %q", string(multiplier))
	}
	return network, &msat, nil
}

// parseTaggedFields walks the (type, length, data) sequence between the
// timestamp and the signature. Fields with an unexpected length are skipped
// per BOLT11; a truncated sequence fails the whole invoice.
func (b *Bolt11) parseTaggedFields(tagged []byte) error {
	for len(tagged) > 0 {
		if len(tagged) < 3 {
			return errors.New("truncated tagged field header")
		}
		tag := tagged[0]
		length := int(tagged[1])<<5 | int(tagged[2])
		if len(tagged) < 3+length {
			return errors.New("truncated tagged field data")
		}
		field := tagged[3 : 3+length]
		tagged = tagged[3+length:]

		switch tag {
		case tagPaymentHash:
			if length != 52 || b.PaymentHash != "" {
				continue
			}
			if hash, err := bech32.ConvertBits(field, 5, 8, false); err == nil {
				b.PaymentHash = hex.EncodeToString(hash)
			}
		case tagDescription:
			if buf, err := bech32.ConvertBits(field, 5, 8, false); err == nil {
				s := string(buf)
				b.Description = &s
			}
		case tagDescriptionHash:
			if length != 52 {
				continue
			}
			if hash, err := bech32.ConvertBits(field, 5, 8, false); err == nil {
				s := hex.EncodeToString(hash)
				b.DescriptionHash = &s
			}
		case tagExpiry:
			b.ExpirySeconds = int64(intFromGroups(field))
		case tagMinFinalCLTV:
			cltv := intFromGroups(field)
			b.MinFinalCLTV = &cltv
		case tagPayeeNodeID:
			if length != 53 {
				continue
			}
			if key, err := bech32.ConvertBits(field, 5, 8, false); err == nil && len(key) == 33 {
				s := hex.EncodeToString(key)
				b.PayeeNodeID = &s
			}
		case tagFallback:
			if addr := renderFallback(b.Network, field); addr != "" {
				b.FallbackAddress = &addr
			}
		case tagRouting:
			if buf, err := bech32.ConvertBits(field, 5, 8, false); err == nil {
				b.RouteHints = append(b.RouteHints, parseRouteHints(buf)...)
			}
		}
	}
	return nil
}

func intFromGroups(groups []byte) uint64 {
	var v uint64
	for _, g := range groups {
		v = v<<5 | uint64(g)
	}
	return v
}

// renderFallback turns an f field (witness version + program) into an
// on-chain address string. Versions 17 and 18 are the legacy P2PKH/P2SH
// encodings; 0-16 are segwit programs.
func renderFallback(network string, field []byte) string {
	if len(field) < 2 {
		return ""
	}
	version := field[0]
	program, err := bech32.ConvertBits(field[1:], 5, 8, false)
	if err != nil {
		return ""
	}

	switch {
	case version == 17:
		return base58.CheckEncode(program, p2pkhVersion(network))
	case version == 18:
		return base58.CheckEncode(program, p2shVersion(network))
	case version <= 16:
		data := append([]byte{version}, field[1:]...)
		var addr string
		var encErr error
		if version == 0 {
			addr, encErr = bech32.Encode(segwitHRP(network), data)
		} else {
			addr, encErr = bech32.EncodeM(segwitHRP(network), data)
		}
		if encErr != nil {
			return ""
		}
		return addr
	}
	return ""
}

func p2pkhVersion(network string) byte {
	if network == "mainnet" {
		return 0x00
	}
	return 0x6f
}

func p2shVersion(network string) byte {
	if network == "mainnet" {
		return 0x05
	}
	return 0xc4
}

func segwitHRP(network string) string {
	switch network {
	case "mainnet":
		return "bc"
	case "testnet":
		return "tb"
	default:
		return "bcrt"
	}
}

// parseRouteHints splits an r field into 51-byte hops.
func parseRouteHints(buf []byte) []RouteHint {
	const hopSize = 33 + 8 + 4 + 4 + 2
	hints := make([]RouteHint, 0, len(buf)/hopSize)
	for len(buf) >= hopSize {
		hints = append(hints, RouteHint{
			NodeID:          hex.EncodeToString(buf[:33]),
			ShortChannelID:  binary.BigEndian.Uint64(buf[33:41]),
			FeeBaseMsat:     binary.BigEndian.Uint32(buf[41:45]),
			FeeProportional: binary.BigEndian.Uint32(buf[45:49]),
			CLTVExpiryDelta: binary.BigEndian.Uint16(buf[49:51]),
		})
		buf = buf[hopSize:]
	}
	return hints
}
