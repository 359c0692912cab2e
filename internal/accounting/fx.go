package accounting

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accounting.service",
	fx.Provide(service.New),
)
