package payload

import (
	"net/url"
	"strings"
)

// ContentType is the wire name of a recognized payment format.
type ContentType string

const (
	TypeBip21            ContentType = "BIP21"
	TypeBolt11           ContentType = "BOLT11"
	TypeLnurl            ContentType = "LNURL"
	TypeLightningAddress ContentType = "LIGHTNING_ADDRESS"
	TypeUnknown          ContentType = "Unknown"
)

// Data is the closed set of parsed payload variants. Consumers dispatch with
// a type switch; no variant is ever mutated after parsing.
type Data interface {
	contentType() ContentType
}

// Parsed is the outcome of running one parser over the raw input.
// Warnings collected here are format-level only.
type Parsed struct {
	Type        ContentType
	Data        Data
	FormatValid bool
	Warnings    []string
	Raw         string
}

type Bip21 struct {
	Address           string   `json:"address"`
	Network           string   `json:"network,omitempty"`
	AmountBTC         *float64 `json:"amount_btc,omitempty"`
	AmountSats        *int64   `json:"amount_satoshis,omitempty"`
	Label             *string  `json:"label,omitempty"`
	Message           *string  `json:"message,omitempty"`
	PaymentRequestURL *string  `json:"payment_request_url,omitempty"`

	// AddressValid reports whether the checksum held for any supported
	// address encoding. A bad address keeps the URI parseable.
	AddressValid bool `json:"-"`
}

type Bolt11 struct {
	Invoice         string      `json:"invoice"`
	Network         string      `json:"network"`
	AmountMsat      *uint64     `json:"amount_msat,omitempty"`
	AmountSats      *int64      `json:"amount_sats,omitempty"`
	Timestamp       int64       `json:"timestamp"`
	PaymentHash     string      `json:"payment_hash"`
	Description     *string     `json:"description,omitempty"`
	DescriptionHash *string     `json:"description_hash,omitempty"`
	ExpirySeconds   int64       `json:"expiry"`
	MinFinalCLTV    *uint64     `json:"min_final_cltv,omitempty"`
	PayeeNodeID     *string     `json:"payee_node_id,omitempty"`
	FallbackAddress *string     `json:"fallback_address,omitempty"`
	RouteHints      []RouteHint `json:"routing_info,omitempty"`

	sigHash   [32]byte
	signature [65]byte // r || s || recovery id
}

type RouteHint struct {
	NodeID          string `json:"node_id"`
	ShortChannelID  uint64 `json:"short_channel_id"`
	FeeBaseMsat     uint32 `json:"fee_base_msat"`
	FeeProportional uint32 `json:"fee_proportional_millionths"`
	CLTVExpiryDelta uint16 `json:"cltv_expiry_delta"`
}

type Lnurl struct {
	Encoded string `json:"lnurl,omitempty"`
	URL     string `json:"url"`
	Domain  string `json:"domain"`
	Subtype string `json:"type"`
}

type LightningAddress struct {
	Address  string `json:"lightning_address"`
	Username string `json:"username"`
	Domain   string `json:"domain"`
	LnurlURL string `json:"lnurl_url"`
}

type Unknown struct {
	Raw string `json:"raw"`
}

func (*Bip21) contentType() ContentType            { return TypeBip21 }
func (*Bolt11) contentType() ContentType           { return TypeBolt11 }
func (*Lnurl) contentType() ContentType            { return TypeLnurl }
func (*LightningAddress) contentType() ContentType { return TypeLightningAddress }
func (*Unknown) contentType() ContentType          { return TypeUnknown }

// Identifier returns the canonical duplicate-detection key for the payload.
// Equality over this key is pure case-folding: two inputs differing only by
// case collide, nothing else does. Returns false for unrecognized content.
func (p Parsed) Identifier() (string, bool) {
	var id string
	switch d := p.Data.(type) {
	case *Bip21:
		id = d.Address
	case *Bolt11:
		id = d.Invoice
	case *Lnurl:
		id = d.URL
		if id == "" {
			id = d.Encoded
		}
	case *LightningAddress:
		id = d.Address
	default:
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(id)), true
}

// VerifyDomain returns the domain that must pass the DNS/TLS check for this
// payload, if the format carries one. BIP21 only exposes a domain when the
// URI includes an r= payment request URL; BOLT11 never does.
func (p Parsed) VerifyDomain() (string, bool) {
	switch d := p.Data.(type) {
	case *Bip21:
		if d.PaymentRequestURL == nil {
			return "", false
		}
		u, err := url.Parse(*d.PaymentRequestURL)
		if err != nil || u.Hostname() == "" {
			return "", false
		}
		return u.Hostname(), true
	case *Lnurl:
		return d.Domain, d.Domain != ""
	case *LightningAddress:
		return d.Domain, d.Domain != ""
	default:
		return "", false
	}
}
