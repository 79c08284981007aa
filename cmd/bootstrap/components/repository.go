package components

import (
	"payscan/internal/infra/netcheck"
	"payscan/internal/infra/readstore"
	repo_impl "payscan/internal/infra/repository"
	"payscan/internal/usecase/commands"
	"payscan/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewProviderRepository,
			fx.As(new(commands.ProviderRegistry)),
		),
		fx.Annotate(
			repo_impl.NewScanLogRepository,
			fx.As(new(commands.ScanLogRepository)),
		),
		fx.Annotate(
			netcheck.NewVerifier,
			fx.As(new(commands.DomainVerifier)),
		),
		// Read-side repository for queries
		fx.Annotate(
			readstore.NewScanReadStore,
			fx.As(new(queries.ScanReadStore)),
		),
	),
)
