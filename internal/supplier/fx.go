package supplier

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier.service",
	fx.Provide(service.New),
)
