package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"payscan/internal/domain/payload"
	"payscan/internal/pkg/clock"
	"payscan/internal/pkg/config"
	"payscan/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxContentLength is the request-content ceiling in bytes. Oversized content
// is the only failure (besides emptiness) that surfaces to the client.
const MaxContentLength = 2000

type ScanInput struct {
	Content   string
	DeviceID  *string
	IPAddress *string
}

type ScanResult struct {
	ScanID       uuid.UUID
	Timestamp    time.Time
	ContentType  payload.ContentType
	ParsedData   payload.Data
	AuthStatus   payload.AuthStatus
	Warnings     []string
	Verification payload.VerificationResult
	IsDuplicate  bool
	UsageCount   int64
	FirstSeen    *time.Time
}

type ScanCommands interface {
	Scan(ctx context.Context, in ScanInput) (*ScanResult, error)
	RecordAction(ctx context.Context, scanID uuid.UUID, action, outcome string) error
}

type scanUseCaseImpl struct {
	registry ProviderRegistry
	ledger   DuplicateLedger
	domains  DomainVerifier
	scans    ScanLogRepository
	clock    clock.Clock
	timeout  time.Duration
}

func NewScanCommands(
	registry ProviderRegistry,
	ledger DuplicateLedger,
	domains DomainVerifier,
	scans ScanLogRepository,
	clk clock.Clock,
	cfg config.VerifyConfig,
) ScanCommands {
	return &scanUseCaseImpl{
		registry: registry,
		ledger:   ledger,
		domains:  domains,
		scans:    scans,
		clock:    clk,
		timeout:  cfg.Timeout,
	}
}

// Scan runs the whole pipeline: parse, verify independently, count the
// identifier, aggregate, persist. Network checks degrade their own boolean on
// failure; the scan itself only fails on malformed input or a broken scan log.
func (uc *scanUseCaseImpl) Scan(ctx context.Context, in ScanInput) (*ScanResult, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, errs.ErrContentRequired
	}
	if len(content) > MaxContentLength {
		return nil, errs.ErrContentTooLong
	}

	parsed := payload.Parse(content)
	vr := payload.VerificationResult{FormatValid: parsed.FormatValid}

	var (
		cryptoWarnings   []string
		domainWarnings   []string
		providerWarnings []string
		dupWarnings      []string
		highFrequency    string
		providerName     *string
		nodeID           string
	)

	if parsed.FormatValid {
		vr.CryptoValid, nodeID, cryptoWarnings = uc.checkCrypto(parsed)

		// Domain verification and provider lookup are independent given the
		// parsed payload; run them concurrently and join before aggregating.
		var wg sync.WaitGroup
		var domainOK, providerOK bool
		var domainWarn, providerWarn []string
		var matched *ProviderInfo

		domain, needsDomain := parsed.VerifyDomain()
		if needsDomain {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cctx, cancel := context.WithTimeout(ctx, uc.timeout)
				defer cancel()
				if err := uc.domains.Check(cctx, domain); err != nil {
					domainWarn = append(domainWarn, fmt.Sprintf("Domain check failed for %s: %v", domain, err))
					return
				}
				domainOK = true
			}()
		} else {
			domainOK = true
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, uc.timeout)
			defer cancel()
			info, err := uc.lookupProvider(cctx, parsed, nodeID)
			if err != nil {
				providerWarn = append(providerWarn, "Provider registry unavailable")
				return
			}
			if info == nil {
				providerWarn = append(providerWarn, "Provider not recognized")
				return
			}
			providerOK = true
			matched = info
		}()

		wg.Wait()
		vr.DomainValid = domainOK
		vr.ProviderKnown = providerOK
		domainWarnings = domainWarn
		providerWarnings = providerWarn
		if matched != nil {
			providerName = &matched.Name
		}
	}

	var (
		isDuplicate bool
		usageCount  int64
		firstSeen   *time.Time
		normalized  *string
	)
	if id, ok := parsed.Identifier(); ok && parsed.FormatValid {
		normalized = &id
		entry, err := uc.ledger.Upsert(ctx, id, uc.clock.Now())
		if err != nil {
			dupWarnings = append(dupWarnings, "Duplicate tracking unavailable for this scan")
		} else {
			usageCount = entry.UsageCount
			fs := entry.FirstSeen
			firstSeen = &fs
			isDuplicate = usageCount > 1
			if usageCount >= 2 {
				dupWarnings = append(dupWarnings, fmt.Sprintf(
					"This identifier has been scanned %d time(s) before. First seen: %s",
					usageCount-1, entry.FirstSeen.UTC().Format(time.RFC3339)))
			}
			if usageCount >= payload.HighFrequencyThreshold {
				highFrequency = fmt.Sprintf("HIGH FREQUENCY: this identifier has been scanned %d times", usageCount)
			}
		}
	}

	warnings := assembleWarnings(highFrequency, parsed.Warnings, cryptoWarnings, domainWarnings, providerWarnings, dupWarnings)
	status := payload.Aggregate(vr, usageCount)

	rec := &ScanRecord{
		ScanID:               uuid.New(),
		Timestamp:            uc.clock.Now(),
		RawContent:           content,
		ContentType:          parsed.Type,
		ParsedData:           parsed.Data,
		AuthStatus:           status,
		Verification:         vr,
		Warnings:             warnings,
		NormalizedIdentifier: normalized,
		IsDuplicate:          isDuplicate,
		UsageCount:           usageCount,
		FirstSeen:            firstSeen,
		Provider:             providerName,
		DeviceID:             in.DeviceID,
		IPAddress:            in.IPAddress,
	}
	if err := uc.scans.Create(ctx, rec); err != nil {
		return nil, err
	}

	return &ScanResult{
		ScanID:       rec.ScanID,
		Timestamp:    rec.Timestamp,
		ContentType:  parsed.Type,
		ParsedData:   parsed.Data,
		AuthStatus:   status,
		Warnings:     warnings,
		Verification: vr,
		IsDuplicate:  isDuplicate,
		UsageCount:   usageCount,
		FirstSeen:    firstSeen,
	}, nil
}

// RecordAction appends the user's decision to an existing scan. Verification
// fields are out of reach here.
func (uc *scanUseCaseImpl) RecordAction(ctx context.Context, scanID uuid.UUID, action, outcome string) error {
	found, err := uc.scans.UpdateAction(ctx, scanID, action, outcome)
	if err != nil {
		return err
	}
	if !found {
		return errs.ErrScanNotFound
	}
	return nil
}

// checkCrypto runs the format's cryptographic check. Pure CPU work: address
// checksums for BIP21, signature recovery for BOLT11. LNURL and lightning
// addresses carry no signature, so the check passes vacuously.
func (uc *scanUseCaseImpl) checkCrypto(parsed payload.Parsed) (bool, string, []string) {
	switch d := parsed.Data.(type) {
	case *payload.Bip21:
		if !d.AddressValid {
			return false, "", []string{fmt.Sprintf("Invalid Bitcoin address: %s", d.Address)}
		}
		return true, "", nil
	case *payload.Bolt11:
		nodeID, err := d.RecoverPayee()
		if err != nil {
			return false, "", []string{"Invalid Lightning invoice signature"}
		}
		var warnings []string
		if d.PayeeNodeID != nil && *d.PayeeNodeID != nodeID {
			warnings = append(warnings, "Invoice node id does not match the signing key")
		}
		if d.ExpiresAt().Before(uc.clock.Now()) {
			warnings = append(warnings, "invoice expired")
		}
		return true, nodeID, warnings
	case *payload.Lnurl, *payload.LightningAddress:
		return true, "", nil
	default:
		return false, "", nil
	}
}

// lookupProvider picks the registry key for the format: domain for
// LNURL/lightning addresses, the on-chain address for BIP21, the recovered
// node key for BOLT11.
func (uc *scanUseCaseImpl) lookupProvider(ctx context.Context, parsed payload.Parsed, nodeID string) (*ProviderInfo, error) {
	switch d := parsed.Data.(type) {
	case *payload.Bip21:
		return uc.registry.FindActiveByAddress(ctx, strings.ToLower(d.Address))
	case *payload.Bolt11:
		if nodeID == "" {
			return nil, nil
		}
		return uc.registry.FindActiveByNodeID(ctx, nodeID)
	case *payload.Lnurl:
		return uc.registry.FindActiveByDomain(ctx, d.Domain)
	case *payload.LightningAddress:
		return uc.registry.FindActiveByDomain(ctx, d.Domain)
	default:
		return nil, nil
	}
}

// assembleWarnings fixes the presentation order: the high-frequency alert
// first, then format, crypto, domain, provider, duplicate.
func assembleWarnings(highFrequency string, groups ...[]string) []string {
	warnings := make([]string, 0, 4)
	if highFrequency != "" {
		warnings = append(warnings, highFrequency)
	}
	for _, group := range groups {
		warnings = append(warnings, group...)
	}
	return warnings
}
