package auth

import (
	"github.com/rashidrk201111/mansoorbhai-billing/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(service.New),
)
