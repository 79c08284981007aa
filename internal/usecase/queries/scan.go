package queries

import (
	"context"
	"time"

	"payscan/internal/domain/payload"
	"payscan/internal/pkg/errs"

	"github.com/google/uuid"
)

// ScanView is the read model for one logged scan, including the user's
// recorded action when present.
type ScanView struct {
	ScanID               uuid.UUID                  `json:"scan_id"`
	Timestamp            time.Time                  `json:"timestamp"`
	RawContent           string                     `json:"raw_content"`
	ContentType          payload.ContentType        `json:"content_type"`
	ParsedData           payload.Data               `json:"parsed_data,omitempty"`
	AuthStatus           payload.AuthStatus         `json:"auth_status"`
	Verification         payload.VerificationResult `json:"verification"`
	Warnings             []string                   `json:"warnings"`
	NormalizedIdentifier *string                    `json:"normalized_identifier,omitempty"`
	IsDuplicate          bool                       `json:"is_duplicate"`
	UsageCount           int64                      `json:"usage_count"`
	FirstSeen            *time.Time                 `json:"first_seen,omitempty"`
	Provider             *string                    `json:"provider,omitempty"`
	DeviceID             *string                    `json:"device_id,omitempty"`
	IPAddress            *string                    `json:"ip_address,omitempty"`
	UserAction           *string                    `json:"user_action,omitempty"`
	Outcome              *string                    `json:"outcome,omitempty"`
}

type ScanListItem struct {
	ScanID      uuid.UUID           `json:"scan_id"`
	Timestamp   time.Time           `json:"timestamp"`
	ContentType payload.ContentType `json:"content_type"`
	AuthStatus  payload.AuthStatus  `json:"auth_status"`
	IsDuplicate bool                `json:"is_duplicate"`
	Provider    *string             `json:"provider,omitempty"`
}

type ScanQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ScanView, error)
	ListRecent(ctx context.Context, limit int) ([]*ScanListItem, error)
}

// ScanReadStore is the persistence-side lookup. A nil view with a nil error
// means the scan does not exist.
type ScanReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ScanView, error)
	FindRecent(ctx context.Context, limit int32) ([]*ScanListItem, error)
}

type scanQueriesImpl struct {
	store ScanReadStore
}

func NewScanQueries(store ScanReadStore) ScanQueries {
	return &scanQueriesImpl{store: store}
}

func (q *scanQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ScanView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, errs.ErrScanNotFound
	}
	return view, nil
}

func (q *scanQueriesImpl) ListRecent(ctx context.Context, limit int) ([]*ScanListItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.store.FindRecent(ctx, int32(limit))
}
