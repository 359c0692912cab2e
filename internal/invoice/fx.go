package invoice

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.New),
)
