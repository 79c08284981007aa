package bootstrap

import (
	"payscan/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	LedgerModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
