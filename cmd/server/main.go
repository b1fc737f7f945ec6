// Package main initializes and starts the draftvault server, setting up
// configuration, logging, the persisted key-value store, the draft engine
// and the HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"draftvault/internal/autosave"
	"draftvault/internal/config"
	"draftvault/internal/kv"
	"draftvault/internal/logger"
	"draftvault/internal/score"
	"draftvault/internal/server/handler/http"
	"draftvault/internal/service"
	"draftvault/internal/store"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Select the key-value backend: PostgreSQL when a DSN is set,
	// JSON files on disk otherwise.
	var persisted kv.Store
	if options.DatabaseDSN != "" {
		db, err := kv.OpenPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer db.Close()
		persisted = kv.NewPostgresStore(db)
	} else {
		fileStore, err := kv.NewFileStore(options.StorageDir)
		if err != nil {
			zapLogger.Fatal("cannot init file storage", zap.Error(err))
		}
		persisted = fileStore
	}

	// Initialize the draft engine.
	versions, err := store.NewVersionStore(persisted, zapLogger, options.MaxHistory)
	if err != nil {
		zapLogger.Fatal("cannot load version store", zap.Error(err))
	}
	trash, err := store.NewTrashManager(persisted, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot load trash", zap.Error(err))
	}
	undo := store.NewUndoEngine(versions)
	pipeline := autosave.NewPipeline(
		versions,
		undo,
		time.Duration(options.DebounceMS)*time.Millisecond,
		zapLogger,
	)
	defer func() { _ = pipeline.Close() }()

	// Optional trash retention.
	if options.TrashRetentionDays > 0 {
		store.StartTrashRetentionCleaner(context.Background(), trash,
			time.Hour,
			time.Duration(options.TrashRetentionDays)*24*time.Hour,
			zapLogger,
		)
	}

	editor := service.NewEditor(versions, trash, undo, pipeline, score.NewScorer(nil, nil), zapLogger)

	// Create HTTP handlers for draft and trash endpoints.
	draftHandler := &http.DraftHandler{Editor: editor}
	trashHandler := &http.TrashHandler{Editor: editor}

	// Build the router with middleware and routes.
	router := http.NewRouter(draftHandler, trashHandler, zapLogger)

	zapLogger.Info("starting server", zap.String("addr", addr))
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
