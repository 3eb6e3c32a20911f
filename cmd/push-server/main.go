package main

import (
	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.napbook/internal/boot"
	"uk.co.dudmesh.napbook/internal/client/entity"
	"uk.co.dudmesh.napbook/internal/handlers"
	"uk.co.dudmesh.napbook/internal/service/push"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	logger := boot.NewLogger("push-server", config.LogLevel)
	store := entity.New(config.EntityStore.URL, config.RequestTimeout)
	pushService := push.New(store, config.DataTable, config.PushServer.FanoutConcurrency, logger)

	server := boot.NewServer("push_server", logger)
	handlers.RegisterPushRoutes(server, pushService)

	logger.Infof("push server fanning out %d at a time against %s", config.PushServer.FanoutConcurrency, config.EntityStore.URL)
	boot.Run(server, config.PushServer.Port, config.PushServer.MetricsPort)
}
