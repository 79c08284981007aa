package repository

import (
	"context"
	"encoding/json"

	"payscan/internal/infra"
	"payscan/internal/pkg/pgconv"
	"payscan/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScanLogRepository is the write side of the scan log. Records are append-only
// except for the user_action/outcome pair recorded after the fact.
type ScanLogRepository struct {
	pool *pgxpool.Pool
}

func NewScanLogRepository(pool *pgxpool.Pool) *ScanLogRepository {
	return &ScanLogRepository{pool: pool}
}

func (r *ScanLogRepository) Create(ctx context.Context, rec *commands.ScanRecord) error {
	parsedJSON, err := json.Marshal(rec.ParsedData)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode parsed data", err)
	}
	warningsJSON, err := json.Marshal(rec.Warnings)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode warnings", err)
	}

	const query = `
		INSERT INTO scan_logs (
			scan_id, scanned_at, raw_content, content_type, parsed_data,
			auth_status, format_valid, crypto_valid, domain_valid, provider_known,
			warnings, normalized_identifier, is_duplicate, usage_count, first_seen,
			provider, device_id, ip_address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18
		)`
	_, err = r.pool.Exec(ctx, query,
		rec.ScanID,
		pgconv.TimeToPgtype(rec.Timestamp),
		rec.RawContent,
		string(rec.ContentType),
		parsedJSON,
		string(rec.AuthStatus),
		rec.Verification.FormatValid,
		rec.Verification.CryptoValid,
		rec.Verification.DomainValid,
		rec.Verification.ProviderKnown,
		warningsJSON,
		pgconv.StringPtrToPgtype(rec.NormalizedIdentifier),
		rec.IsDuplicate,
		rec.UsageCount,
		pgconv.TimePtrToPgtype(rec.FirstSeen),
		pgconv.StringPtrToPgtype(rec.Provider),
		pgconv.StringPtrToPgtype(rec.DeviceID),
		pgconv.StringPtrToPgtype(rec.IPAddress),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert scan log", err)
	}
	return nil
}

func (r *ScanLogRepository) UpdateAction(ctx context.Context, scanID uuid.UUID, action, outcome string) (bool, error) {
	const query = `
		UPDATE scan_logs
		SET user_action = $2, outcome = $3
		WHERE scan_id = $1`
	tag, err := r.pool.Exec(ctx, query, scanID, action, outcome)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to update scan action", err)
	}
	return tag.RowsAffected() > 0, nil
}
