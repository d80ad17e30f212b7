package main

import (
	"log"

	"nutriscan-backend/internal/bootstrap"
	"nutriscan-backend/internal/shared/config"
	"nutriscan-backend/internal/shared/server"
	"nutriscan-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel)
	defer telemetry.Sync()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("starting api server", map[string]any{"addr": addr, "store": app.StoreKind})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
