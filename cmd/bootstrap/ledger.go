package bootstrap

import (
	"context"

	"payscan/internal/infra/boltledger"
	"payscan/internal/infra/repository"
	"payscan/internal/pkg/config"
	"payscan/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var LedgerModule = fx.Module("ledger",
	fx.Provide(
		NewDuplicateLedger,
	),
)

// NewDuplicateLedger picks the ledger backend. Postgres shares the main pool;
// bolt keeps a local file and needs no second datastore.
func NewDuplicateLedger(lc fx.Lifecycle, cfg config.Config, pool *pgxpool.Pool) (commands.DuplicateLedger, error) {
	if cfg.Ledger.Backend == "bolt" {
		ledger, cleanup, err := boltledger.Open(cfg.Ledger.BoltPath)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		return ledger, nil
	}
	return repository.NewLedgerRepository(pool), nil
}
