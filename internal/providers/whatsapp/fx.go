package whatsapp

import "go.uber.org/fx"

var Module = fx.Module("providers.whatsapp",
	fx.Provide(New),
)
