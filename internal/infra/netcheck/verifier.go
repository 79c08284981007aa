package netcheck

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"payscan/internal/pkg/config"

	"github.com/miekg/dns"
)

const edns0BufSize = 4096

// Verifier checks that a payment domain resolves in DNS and completes a TLS
// handshake with a certificate valid for that name. Both probes are seams so
// unit tests can run without a network.
type Verifier struct {
	tlsPort string

	resolve func(ctx context.Context, domain string) error
	dialTLS func(ctx context.Context, addr, serverName string) error
}

func NewVerifier(cfg config.VerifyConfig) *Verifier {
	v := &Verifier{tlsPort: cfg.TLSPort}
	if cfg.DNSUpstream != "" {
		v.resolve = upstreamResolver(cfg.DNSUpstream)
	} else {
		v.resolve = systemResolver
	}
	v.dialTLS = dialTLS
	return v
}

// Check runs both probes. The caller treats any error as a failed domain
// verification, never as a fatal scan error.
func (v *Verifier) Check(ctx context.Context, domain string) error {
	if err := v.resolve(ctx, domain); err != nil {
		return fmt.Errorf("DNS resolution failed: %w", err)
	}
	if err := v.dialTLS(ctx, net.JoinHostPort(domain, v.tlsPort), domain); err != nil {
		return fmt.Errorf("TLS handshake failed: %w", err)
	}
	return nil
}

func systemResolver(ctx context.Context, domain string) error {
	addrs, err := net.DefaultResolver.LookupHost(ctx, domain)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return fmt.Errorf("no addresses for %s", domain)
	}
	return nil
}

// upstreamResolver queries a fixed recursive resolver directly. Useful when
// the host's stub resolver lies (captive portals, split DNS).
func upstreamResolver(upstream string) func(ctx context.Context, domain string) error {
	return func(ctx context.Context, domain string) error {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
		msg.RecursionDesired = true
		msg.SetEdns0(edns0BufSize, false)

		client := &dns.Client{}
		resp, _, err := client.ExchangeContext(ctx, msg, upstream)
		if err != nil {
			return err
		}
		if resp.Rcode != dns.RcodeSuccess {
			return fmt.Errorf("query %s A: rcode %s", domain, dns.RcodeToString[resp.Rcode])
		}
		if len(resp.Answer) == 0 {
			return fmt.Errorf("no addresses for %s", domain)
		}
		return nil
	}
}

func dialTLS(ctx context.Context, addr, serverName string) error {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: serverName}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
