package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/meenmo/swaplib/internal/report"
	"github.com/meenmo/swaplib/internal/store"
)

func runHistory(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config path (optional)")
	dsn := fs.String("db", "", "history database (overrides config)")
	tradeID := fs.String("trade", "", "only runs of this trade id")
	limit := fs.Int("limit", 20, "maximum number of runs; 0 lists all")
	pruneDays := fs.Int("prune-days", 0, "delete runs older than this many days before listing")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		historyUsage(stderr)
		return 0
	}

	cfg, err := loadConfig(*configPath, false, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *dsn != "" {
		cfg.Storage.DSN = *dsn
	}

	s, err := store.Open(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		return 1
	}
	defer s.Close()

	ctx := context.Background()
	if *pruneDays > 0 {
		n, err := s.Prune(ctx, time.Now().UTC().AddDate(0, 0, -*pruneDays))
		if err != nil {
			slog.Error("failed to prune runs", "err", err)
			return 1
		}
		slog.Info("pruned runs", "deleted", n, "days", *pruneDays)
	}

	var runs []store.Run
	if *tradeID != "" {
		runs, err = s.ListByTrade(ctx, *tradeID, *limit)
	} else {
		runs, err = s.List(ctx, *limit)
	}
	if err != nil {
		slog.Error("failed to list runs", "err", err)
		return 1
	}

	if *asJSON {
		if err := report.JSON(stdout, runs); err != nil {
			slog.Error("failed to write report", "err", err)
			return 1
		}
		return 0
	}
	report.Table(stdout, runs)
	return 0
}

func historyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fairrate history [-trade ID] [-limit N] [-prune-days N] [-json] [-db runs.db] [-config config.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List stored pricing runs, newest first.")
}
