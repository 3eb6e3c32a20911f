package main

import (
	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.napbook/internal/boot"
	"uk.co.dudmesh.napbook/internal/client/entity"
	"uk.co.dudmesh.napbook/internal/client/push"
	"uk.co.dudmesh.napbook/internal/handlers"
	"uk.co.dudmesh.napbook/internal/service/social"
	"uk.co.dudmesh.napbook/internal/service/status"
	"uk.co.dudmesh.napbook/internal/session"
)

type config struct {
	boot.Config
	sessions      *session.Registry
	socialService handlers.SocialService
	statusService handlers.StatusService
}

func newConfig(bootConfig *boot.Config, logger *log.Logger) *config {
	store := entity.New(bootConfig.EntityStore.URL, bootConfig.RequestTimeout)
	pusher := push.New(bootConfig.PushServer.URL, bootConfig.RequestTimeout)
	sessions := session.New(store, bootConfig.DataTable, logger)

	return &config{
		Config:        *bootConfig,
		sessions:      sessions,
		socialService: social.New(sessions, store, bootConfig.DataTable, logger),
		statusService: status.New(sessions, store, pusher, bootConfig.DataTable, logger),
	}
}

func main() {
	bootConfig, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	logger := boot.NewLogger("user-server", bootConfig.LogLevel)
	config := newConfig(bootConfig, logger)

	server := boot.NewServer("user_server", logger)
	handlers.RegisterUserRoutes(server, config.sessions, config.socialService, config.statusService)

	logger.Infof("user server using entity store %s and push server %s", config.EntityStore.URL, config.PushServer.URL)
	boot.Run(server, config.UserServer.Port, config.UserServer.MetricsPort)
}
