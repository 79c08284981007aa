package readstore

import (
	"context"
	"encoding/json"

	"payscan/internal/domain/payload"
	"payscan/internal/infra"
	"payscan/internal/pkg/pgconv"
	"payscan/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScanReadStore struct {
	pool *pgxpool.Pool
}

func NewScanReadStore(pool *pgxpool.Pool) *ScanReadStore {
	return &ScanReadStore{pool: pool}
}

func (s *ScanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ScanView, error) {
	const query = `
		SELECT scan_id, scanned_at, raw_content, content_type, parsed_data,
		       auth_status, format_valid, crypto_valid, domain_valid, provider_known,
		       warnings, normalized_identifier, is_duplicate, usage_count, first_seen,
		       provider, device_id, ip_address, user_action, outcome
		FROM scan_logs
		WHERE scan_id = $1`

	var (
		view         queries.ScanView
		scannedAt    pgtype.Timestamptz
		contentType  string
		parsedJSON   []byte
		authStatus   string
		warningsJSON []byte
		normalized   pgtype.Text
		firstSeen    pgtype.Timestamptz
		provider     pgtype.Text
		deviceID     pgtype.Text
		ipAddress    pgtype.Text
		userAction   pgtype.Text
		outcome      pgtype.Text
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&view.ScanID, &scannedAt, &view.RawContent, &contentType, &parsedJSON,
		&authStatus,
		&view.Verification.FormatValid, &view.Verification.CryptoValid,
		&view.Verification.DomainValid, &view.Verification.ProviderKnown,
		&warningsJSON, &normalized, &view.IsDuplicate, &view.UsageCount, &firstSeen,
		&provider, &deviceID, &ipAddress, &userAction, &outcome,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query scan log", err)
	}

	view.Timestamp = pgconv.TimeFromPgtype(scannedAt)
	view.ContentType = payload.ContentType(contentType)
	view.AuthStatus = payload.AuthStatus(authStatus)
	view.NormalizedIdentifier = pgconv.StringPtrFromPgtype(normalized)
	view.FirstSeen = pgconv.TimePtrFromPgtype(firstSeen)
	view.Provider = pgconv.StringPtrFromPgtype(provider)
	view.DeviceID = pgconv.StringPtrFromPgtype(deviceID)
	view.IPAddress = pgconv.StringPtrFromPgtype(ipAddress)
	view.UserAction = pgconv.StringPtrFromPgtype(userAction)
	view.Outcome = pgconv.StringPtrFromPgtype(outcome)

	view.Warnings = []string{}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &view.Warnings); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode warnings", err)
		}
	}
	data, err := payload.DecodeData(view.ContentType, parsedJSON)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode parsed data", err)
	}
	view.ParsedData = data

	return &view, nil
}

func (s *ScanReadStore) FindRecent(ctx context.Context, limit int32) ([]*queries.ScanListItem, error) {
	const query = `
		SELECT scan_id, scanned_at, content_type, auth_status, is_duplicate, provider
		FROM scan_logs
		ORDER BY scanned_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query recent scans", err)
	}
	defer rows.Close()

	items := make([]*queries.ScanListItem, 0, limit)
	for rows.Next() {
		var (
			item        queries.ScanListItem
			scannedAt   pgtype.Timestamptz
			contentType string
			authStatus  string
			provider    pgtype.Text
		)
		if err := rows.Scan(&item.ScanID, &scannedAt, &contentType, &authStatus, &item.IsDuplicate, &provider); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan recent scan row", err)
		}
		item.Timestamp = pgconv.TimeFromPgtype(scannedAt)
		item.ContentType = payload.ContentType(contentType)
		item.AuthStatus = payload.AuthStatus(authStatus)
		item.Provider = pgconv.StringPtrFromPgtype(provider)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read recent scans", err)
	}
	return items, nil
}
