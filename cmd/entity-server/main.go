package main

import (
	"path/filepath"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.napbook/internal/boot"
	"uk.co.dudmesh.napbook/internal/handlers"
	"uk.co.dudmesh.napbook/internal/service/auth"
	"uk.co.dudmesh.napbook/internal/store"
	"uk.co.dudmesh.napbook/internal/token"
)

const signingKeyID = "napbook-entity-store"

type Records interface {
	handlers.Records
	auth.Records
	Close() error
}

type config struct {
	boot.Config
	records     Records
	authService handlers.AuthService
	verifier    handlers.Verifier
}

func newConfig(bootConfig *boot.Config, logger *log.Logger) *config {
	records, err := store.NewRecords(bootConfig)
	if err != nil {
		log.Fatalf("opening records: %+v", err)
	}

	key, err := token.LoadOrCreateKey(filepath.Join(bootConfig.DataDirectory(), "signing.jwk"), signingKeyID)
	if err != nil {
		log.Fatalf("loading signing key: %+v", err)
	}
	issuer := token.NewIssuer(key, bootConfig.EntityStore.TokenTTL)

	return &config{
		Config:      *bootConfig,
		records:     records,
		authService: auth.New(records, issuer, bootConfig.AuthTable, bootConfig.DataTable, logger),
		verifier:    issuer,
	}
}

func main() {
	bootConfig, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	logger := boot.NewLogger("entity-server", bootConfig.LogLevel)
	config := newConfig(bootConfig, logger)
	defer config.records.Close()

	server := boot.NewServer("entity_store", logger)
	handlers.RegisterEntityRoutes(server, config.records, config.verifier, config.authService)

	logger.Infof("entity store serving %s on :%s", config.DataDirectory(), config.EntityStore.Port)
	boot.Run(server, config.EntityStore.Port, config.EntityStore.MetricsPort)
}
