package payload

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// maxBTCAmount caps the amount parameter; anything above the total supply is
// dropped as out of range.
const maxBTCAmount = 21_000_000.0

var addressParams = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
}

// parseBip21 parses a bitcoin:<address>[?key=value...] URI. A failed address
// checksum leaves the URI format-valid; the bad address is reported through
// AddressValid so the crypto check can fail independently.
func parseBip21(content string) Parsed {
	p := Parsed{Type: TypeBip21, Raw: content}

	rest := content[len("bitcoin:"):]
	addrPart := rest
	queryPart := ""
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		addrPart = rest[:i]
		queryPart = rest[i+1:]
	}
	if addrPart == "" {
		p.Data = &Bip21{}
		p.Warnings = append(p.Warnings, "bitcoin URI has no address")
		return p
	}

	b := &Bip21{Address: addrPart}
	b.AddressValid, b.Network = validateBitcoinAddress(addrPart)
	p.FormatValid = true

	values, err := url.ParseQuery(queryPart)
	if err != nil {
		p.Warnings = append(p.Warnings, "ignoring malformed URI query: "+err.Error())
		values = url.Values{}
	}

	if raw := lastValue(values, "amount"); raw != "" {
		if sats, btc, ok := parseBTCAmount(raw); ok {
			b.AmountSats = &sats
			b.AmountBTC = &btc
		} else {
			p.Warnings = append(p.Warnings, fmt.Sprintf("ignoring invalid amount %q", raw))
		}
	}
	if v := lastValue(values, "label"); v != "" {
		b.Label = &v
	}
	if v := lastValue(values, "message"); v != "" {
		b.Message = &v
	}
	if v := lastValue(values, "r"); v != "" {
		b.PaymentRequestURL = &v
	}

	p.Data = b
	return p
}

// lastValue implements last-occurrence-wins for duplicated query keys.
func lastValue(values url.Values, key string) string {
	vs := values[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// parseBTCAmount converts a decimal BTC amount into integer satoshis,
// rounding to the nearest satoshi.
func parseBTCAmount(raw string) (sats int64, btc float64, ok bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, 0, false
	}
	if f < 0 || f > maxBTCAmount {
		return 0, 0, false
	}
	return int64(math.Round(f * 1e8)), f, true
}

// validateBitcoinAddress checks the checksum for any supported encoding
// (Base58Check, bech32, bech32m) and reports which network the address
// belongs to.
func validateBitcoinAddress(addr string) (bool, string) {
	for _, params := range addressParams {
		decoded, err := btcutil.DecodeAddress(addr, params)
		if err != nil || !decoded.IsForNet(params) {
			continue
		}
		return true, networkName(params)
	}
	return false, ""
}

func networkName(params *chaincfg.Params) string {
	switch params.Net {
	case chaincfg.MainNetParams.Net:
		return "mainnet"
	case chaincfg.TestNet3Params.Net:
		return "testnet"
	default:
		return "regtest"
	}
}
