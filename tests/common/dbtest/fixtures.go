package dbtest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedProviders loads the provider registry fixtures shared by the e2e tests.
// Lookup keys are stored lowercase, matching the repository's contract.
func SeedProviders(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const insert = `
		INSERT INTO providers (name, type, domains, addresses, node_ids, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	fixtures := []struct {
		name      string
		kind      string
		domains   []string
		addresses []string
		nodeIDs   []string
		active    bool
	}{
		{
			name:    "Strike",
			kind:    "custodial",
			domains: []string{"strike.me"},
			active:  true,
		},
		{
			name:    "Wallet of Satoshi",
			kind:    "custodial",
			domains: []string{"walletofsatoshi.com"},
			active:  true,
		},
		{
			name:      "Test Merchant",
			kind:      "merchant",
			addresses: []string{"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"},
			active:    true,
		},
		{
			name:    "Defunct Wallet",
			kind:    "custodial",
			domains: []string{"defunct.example.com"},
			active:  false,
		},
	}

	for _, f := range fixtures {
		if f.domains == nil {
			f.domains = []string{}
		}
		if f.addresses == nil {
			f.addresses = []string{}
		}
		if f.nodeIDs == nil {
			f.nodeIDs = []string{}
		}
		if _, err := pool.Exec(ctx, insert, f.name, f.kind, f.domains, f.addresses, f.nodeIDs, f.active); err != nil {
			return err
		}
	}
	return nil
}
