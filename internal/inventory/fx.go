package inventory

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(service.New),
)
