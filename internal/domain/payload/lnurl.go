package payload

import (
	"net/url"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// parseLnurl accepts either a bech32-encoded lnurl1... string (decoded to the
// HTTPS URL it wraps) or a direct LNURL-pay style HTTPS URL. The format is
// valid iff the resolved value is a well-formed https:// URL.
func parseLnurl(content string) Parsed {
	p := Parsed{Type: TypeLnurl, Raw: content}

	if strings.HasPrefix(strings.ToLower(content), "lnurl") && !strings.Contains(content, "://") {
		hrp, data, err := bech32.DecodeNoLimit(content)
		if err != nil || hrp != "lnurl" {
			p.Data = &Unknown{Raw: content}
			p.Warnings = append(p.Warnings, "invalid LNURL encoding")
			return p
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			p.Data = &Unknown{Raw: content}
			p.Warnings = append(p.Warnings, "invalid LNURL payload")
			return p
		}
		resolved := string(raw)
		domain, ok := httpsHost(resolved)
		if !ok {
			p.Data = &Unknown{Raw: content}
			p.Warnings = append(p.Warnings, "LNURL does not wrap an https URL")
			return p
		}
		p.Data = &Lnurl{
			Encoded: strings.ToLower(content),
			URL:     resolved,
			Domain:  domain,
			Subtype: classifyLnurl(resolved),
		}
		p.FormatValid = true
		return p
	}

	domain, ok := httpsHost(content)
	if !ok {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "LNURL target is not a valid https URL")
		return p
	}
	p.Data = &Lnurl{
		URL:     content,
		Domain:  domain,
		Subtype: classifyLnurl(content),
	}
	p.FormatValid = true
	return p
}

func httpsHost(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "https") || u.Hostname() == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// classifyLnurl maps well-known LNURL path segments to their protocol
// subtypes.
func classifyLnurl(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "/lnurlp/"):
		return "payRequest"
	case strings.Contains(rawURL, "/lnurlw/"):
		return "withdrawRequest"
	case strings.Contains(rawURL, "/lnurlc/"):
		return "channelRequest"
	case strings.Contains(rawURL, "/lnurla/"):
		return "authRequest"
	default:
		return "unknown"
	}
}
