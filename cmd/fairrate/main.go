package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/meenmo/swaplib/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "price":
		return runPrice(args[1:], stdin, stdout, stderr)
	case "history":
		return runHistory(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fairrate <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  price    Price fixed-vs-floating swaps: NPV, leg BPS, fair rate and fair spread")
	fmt.Fprintln(w, "  history  List stored pricing runs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `fairrate <command> -h` for command-specific help.")
}

// loadConfig activates the configuration at path, or the defaults when
// path is empty, and sets up logging to w.
func loadConfig(path string, verbose bool, w io.Writer) (config.Config, error) {
	cfg := config.DefaultConfig
	if strings.TrimSpace(path) != "" {
		c, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	config.SetConfig(cfg)
	setupLogger(cfg.Log, w)
	return cfg, nil
}

// setupLogger logs to w so that stdout carries only the report.
func setupLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
