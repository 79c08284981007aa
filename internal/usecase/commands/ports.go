package commands

import (
	"context"
	"time"

	"payscan/internal/domain/payload"

	"github.com/google/uuid"
)

// ProviderInfo is the registry's view of a known payment provider.
type ProviderInfo struct {
	Name string
	Type string
}

// ProviderRegistry is the read-only lookup over the external provider store.
// A nil ProviderInfo with a nil error means no active match.
type ProviderRegistry interface {
	FindActiveByDomain(ctx context.Context, domain string) (*ProviderInfo, error)
	FindActiveByAddress(ctx context.Context, address string) (*ProviderInfo, error)
	FindActiveByNodeID(ctx context.Context, pubKeyHex string) (*ProviderInfo, error)
}

// LedgerEntry is the state of one normalized identifier after an upsert.
type LedgerEntry struct {
	FirstSeen  time.Time
	UsageCount int64
}

// DuplicateLedger records sightings of normalized identifiers. Upsert must be
// a single atomic insert-or-increment; a read-then-write here is a lost-update
// race under concurrent scans of the same identifier.
type DuplicateLedger interface {
	Upsert(ctx context.Context, normalizedID string, now time.Time) (LedgerEntry, error)
}

// DomainVerifier checks that a domain resolves and serves a valid TLS
// certificate. A nil error means the domain passed; the error text otherwise
// becomes a warning, never a scan failure.
type DomainVerifier interface {
	Check(ctx context.Context, domain string) error
}

// ScanRecord is the persisted outcome of one scan. Aside from the
// user_action/outcome pair appended later, it is immutable once created.
type ScanRecord struct {
	ScanID               uuid.UUID
	Timestamp            time.Time
	RawContent           string
	ContentType          payload.ContentType
	ParsedData           payload.Data
	AuthStatus           payload.AuthStatus
	Verification         payload.VerificationResult
	Warnings             []string
	NormalizedIdentifier *string
	IsDuplicate          bool
	UsageCount           int64
	FirstSeen            *time.Time
	Provider             *string
	DeviceID             *string
	IPAddress            *string
}

// ScanLogRepository persists scan records. UpdateAction reports whether the
// scan existed and must leave every verification field untouched.
type ScanLogRepository interface {
	Create(ctx context.Context, rec *ScanRecord) error
	UpdateAction(ctx context.Context, scanID uuid.UUID, action, outcome string) (bool, error)
}
