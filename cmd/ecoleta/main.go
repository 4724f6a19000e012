package main

import (
	"log"
	"path/filepath"

	"github.com/vbonduro/ecoleta/internal/config"
	"github.com/vbonduro/ecoleta/internal/db"
	"github.com/vbonduro/ecoleta/internal/logging"
	"github.com/vbonduro/ecoleta/internal/metrics"
	"github.com/vbonduro/ecoleta/internal/photostore/local"
	"github.com/vbonduro/ecoleta/internal/service"
	"github.com/vbonduro/ecoleta/internal/store"
	"github.com/vbonduro/ecoleta/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	pointStore := store.NewPointStore(database)
	itemStore := store.NewItemStore(database)

	// Point images live under <uploads>/data; item icons sit directly
	// in <uploads>.
	photoStg, err := local.NewLocalPhotoStore(filepath.Join(cfg.UploadsDir, "data"))
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	urls := service.NewImageURLs(cfg.PublicURL())
	pointService := service.NewPointService(pointStore, photoStg, urls, logger)
	itemService := service.NewItemService(itemStore, urls, logger)

	server := web.NewServer(pointService, itemService, photoStg, metrics.New(), web.Options{
		UploadsDir:     cfg.UploadsDir,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		CORSOrigins:    cfg.CORSOrigins,
	}, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
