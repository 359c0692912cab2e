package customer

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(service.New),
)
