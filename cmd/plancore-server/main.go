// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"plancore/internal/api"
	"plancore/internal/budget"
	"plancore/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to the plancore config YAML (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	var store budget.Store
	if cfg.Budget.DatabasePath != "" {
		sqlStore, err := budget.OpenSQLiteStore(cfg.Budget.DatabasePath)
		if err != nil {
			logger.Error("failed to open budget database", "path", cfg.Budget.DatabasePath, "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("budget store", "backend", "sqlite", "path", cfg.Budget.DatabasePath)
	} else {
		store = budget.NewMemoryStore()
		logger.Info("budget store", "backend", "memory")
	}

	router := api.NewRouter(api.NewServer(store, logger))

	logger.Info("plancore server starting", "address", cfg.Server.Address)
	if err := http.ListenAndServe(cfg.Server.Address, router); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
