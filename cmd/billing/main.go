package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/migration"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/observability"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/seed"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/server"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
