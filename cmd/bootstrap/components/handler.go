package components

import (
	"payscan/internal/handler"
	"payscan/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewScanHandler,
	),
	fx.Invoke(handler.NewRouter),
)
