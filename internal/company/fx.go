package company

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(service.New),
)
