package repository

import (
	"context"
	"time"

	"payscan/internal/infra"
	"payscan/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository keeps the duplicate ledger in Postgres. The upsert is a
// single statement so concurrent scans of one identifier serialize on the
// row instead of racing a read-then-write.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) Upsert(ctx context.Context, normalizedID string, now time.Time) (commands.LedgerEntry, error) {
	const query = `
		INSERT INTO duplicate_records (normalized_identifier, first_seen, last_seen, usage_count)
		VALUES ($1, $2, $2, 1)
		ON CONFLICT (normalized_identifier) DO UPDATE
		SET usage_count = duplicate_records.usage_count + 1,
		    last_seen   = EXCLUDED.last_seen
		RETURNING first_seen, usage_count`

	var entry commands.LedgerEntry
	err := r.pool.QueryRow(ctx, query, normalizedID, now).Scan(&entry.FirstSeen, &entry.UsageCount)
	if err != nil {
		return commands.LedgerEntry{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert duplicate record", err)
	}
	return entry, nil
}
