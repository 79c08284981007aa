package payload

import (
	"strings"
)

// invoicePrefixes are ordered longest-first so lnbcrt is not mistaken for
// lnbc followed by data.
var invoicePrefixes = []string{"lnbcrt", "lntb", "lnbc"}

// DetectContentType classifies raw input into a content-type variant using
// ordered pattern checks. It is deterministic, total, and side-effect free.
func DetectContentType(raw string) ContentType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "bitcoin:"):
		return TypeBip21
	case hasInvoiceShape(s):
		return TypeBolt11
	case strings.HasPrefix(s, "lnurl") && isCharsetTail(s[len("lnurl"):]):
		return TypeLnurl
	case isLnurlURL(s):
		return TypeLnurl
	case isLightningAddressShape(strings.TrimSpace(raw)):
		return TypeLightningAddress
	default:
		return TypeUnknown
	}
}

// Parse dispatches to the parser for the detected content type. It never
// panics; unparseable input comes back as the Unknown variant with
// FormatValid=false.
func Parse(raw string) Parsed {
	content := strings.TrimSpace(raw)
	switch DetectContentType(content) {
	case TypeBip21:
		return parseBip21(content)
	case TypeBolt11:
		return parseBolt11(content)
	case TypeLnurl:
		return parseLnurl(content)
	case TypeLightningAddress:
		return parseLightningAddress(content)
	default:
		return Parsed{
			Type:        TypeUnknown,
			Data:        &Unknown{Raw: content},
			FormatValid: false,
			Warnings:    []string{"unrecognized payment format"},
			Raw:         content,
		}
	}
}

func hasInvoiceShape(s string) bool {
	for _, prefix := range invoicePrefixes {
		if strings.HasPrefix(s, prefix) {
			return isCharsetTail(s[len(prefix):])
		}
	}
	return false
}

// isCharsetTail reports whether the remainder of a candidate bech32 string
// stays within lowercase alphanumerics (the bech32 charset plus the digits
// used in invoice amounts).
func isCharsetTail(tail string) bool {
	if tail == "" {
		return false
	}
	for i := 0; i < len(tail); i++ {
		c := tail[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func isLnurlURL(s string) bool {
	if !strings.HasPrefix(s, "https://") {
		return false
	}
	return strings.Contains(s, "/.well-known/lnurlp/") ||
		strings.Contains(s, "lnurl") ||
		strings.Contains(s, "lightning")
}

func isLightningAddressShape(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.Contains(domain, "@")
}
