package product

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(service.New),
)
