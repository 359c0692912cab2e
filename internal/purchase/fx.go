package purchase

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(service.New),
)
