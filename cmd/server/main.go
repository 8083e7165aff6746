package main

import (
	"context"
	"fmt"

	"github.com/omnisession/omnisession-server/internal/config"
	"github.com/omnisession/omnisession-server/internal/crypto"
	handlerhttp "github.com/omnisession/omnisession-server/internal/handler/http"
	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/internal/server"
	"github.com/omnisession/omnisession-server/internal/service"
	"github.com/omnisession/omnisession-server/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("omnisession-server")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// backend selection happens once, before the listener starts
	backend, err := store.SelectBackend(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing storage backend")
	}

	envelope := crypto.NewEnvelope(cfg.Crypto.KDFIterations)
	services := service.NewBackupService(backend, envelope, log)
	handlers := handlerhttp.NewHandler(services, log)

	srv := server.NewServer(handlers.Init(), cfg.Server, log)
	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
