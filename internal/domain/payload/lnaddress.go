package payload

import (
	"regexp"
	"strings"
)

var (
	localPartPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	hostnamePattern  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
)

// parseLightningAddress validates a user@domain identifier and derives the
// LUD-16 well-known resolution URL. The URL is only an input to the domain
// verifier; fetching it is someone else's job.
func parseLightningAddress(content string) Parsed {
	p := Parsed{Type: TypeLightningAddress, Raw: content}

	at := strings.IndexByte(content, '@')
	if at < 0 {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "not a lightning address")
		return p
	}
	local, domain := content[:at], content[at+1:]

	if !localPartPattern.MatchString(local) {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "invalid lightning address user part")
		return p
	}
	if !hostnamePattern.MatchString(domain) || !strings.Contains(domain, ".") {
		p.Data = &Unknown{Raw: content}
		p.Warnings = append(p.Warnings, "invalid lightning address domain")
		return p
	}

	domainLower := strings.ToLower(domain)
	p.Data = &LightningAddress{
		Address:  local + "@" + domainLower,
		Username: local,
		Domain:   domainLower,
		LnurlURL: "https://" + domainLower + "/.well-known/lnurlp/" + local,
	}
	p.FormatValid = true
	return p
}
