// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"plancore/internal/report"
	"plancore/internal/snapshot"
	"plancore/pkg/cpm"
)

const version = "0.1.0"

func main() {
	var (
		snapshotPath = flag.String("snapshot", "", "path to the task/edge snapshot YAML")
		jsonOut      = flag.Bool("json", false, "emit the full schedule as JSON instead of the table")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("plancore v%s\n", version)
		return
	}

	logFormat := os.Getenv("LOG_FORMAT")
	var handler slog.Handler
	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if *snapshotPath == "" {
		fmt.Fprintln(os.Stderr, "usage: plancore -snapshot <file.yaml> [-json]")
		os.Exit(2)
	}

	tasks, edges, err := snapshot.Load(*snapshotPath)
	if err != nil {
		logger.Error("failed to load snapshot", "path", *snapshotPath, "error", err)
		os.Exit(1)
	}

	schedule, err := cpm.Compute(tasks, edges)
	if err != nil {
		logger.Error("failed to compute schedule", "error", err)
		os.Exit(1)
	}
	if schedule.Degraded {
		logger.Warn("dependency graph contains a cycle; schedule computed with fallback ordering",
			"tasks", len(tasks), "edges", len(edges))
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(schedule); err != nil {
			logger.Error("failed to encode schedule", "error", err)
			os.Exit(1)
		}
		return
	}

	report.WriteText(os.Stdout, report.BuildTable(schedule))
}
