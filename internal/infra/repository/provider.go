package repository

import (
	"context"
	"strings"

	"payscan/internal/infra"
	"payscan/internal/pkg/pgconv"
	"payscan/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderRepository resolves known payment providers from the registry
// table. Every lookup key is stored lowercase, so lookups fold case first.
type ProviderRepository struct {
	pool *pgxpool.Pool
}

func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

func (r *ProviderRepository) FindActiveByDomain(ctx context.Context, domain string) (*commands.ProviderInfo, error) {
	const query = `
		SELECT name, type FROM providers
		WHERE is_active AND $1 = ANY(domains)
		LIMIT 1`
	return r.findOne(ctx, query, strings.ToLower(domain))
}

func (r *ProviderRepository) FindActiveByAddress(ctx context.Context, address string) (*commands.ProviderInfo, error) {
	const query = `
		SELECT name, type FROM providers
		WHERE is_active AND $1 = ANY(addresses)
		LIMIT 1`
	return r.findOne(ctx, query, strings.ToLower(address))
}

func (r *ProviderRepository) FindActiveByNodeID(ctx context.Context, pubKeyHex string) (*commands.ProviderInfo, error) {
	const query = `
		SELECT name, type FROM providers
		WHERE is_active AND $1 = ANY(node_ids)
		LIMIT 1`
	return r.findOne(ctx, query, strings.ToLower(pubKeyHex))
}

func (r *ProviderRepository) findOne(ctx context.Context, query, key string) (*commands.ProviderInfo, error) {
	var info commands.ProviderInfo
	err := r.pool.QueryRow(ctx, query, key).Scan(&info.Name, &info.Type)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query provider registry", err)
	}
	return &info, nil
}
