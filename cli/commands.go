package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sebkoller/bookkeep/currency"
	"github.com/sebkoller/bookkeep/output"
	"github.com/sebkoller/bookkeep/telemetry"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Config    string `help:"Path to the config file." type:"path"`
}

type Commands struct {
	Globals

	Parse      ParseCmd      `cmd:"" help:"Parse an amount and print its normalized form."`
	Convert    ConvertCmd    `cmd:"" help:"Convert an amount into another currency."`
	Rates      RatesCmd      `cmd:"" help:"Manage the historical exchange rate database."`
	Currencies CurrenciesCmd `cmd:"" help:"List the known currencies."`
}

// loadConfig reads the config file named by --config, or the default
// location when the flag is unset.
func (g *Globals) loadConfig() (Config, error) {
	path := g.Config
	if path == "" {
		path = DefaultConfigPath()
	}
	return LoadConfig(path)
}

// openRegistry builds a currency registry over the configured rate store.
// The returned closer must be called when done.
func openRegistry(cfg Config) (*currency.Registry, func(), error) {
	if cfg.RatesDB == "" {
		return currency.NewRegistry(currency.NewMemoryRateDB()), func() {}, nil
	}
	path, err := expandPath(cfg.RatesDB)
	if err != nil {
		return nil, nil, err
	}
	db, err := currency.OpenRateDB(path)
	if err != nil {
		return nil, nil, err
	}
	return currency.NewRegistry(db), func() { _ = db.Close() }, nil
}

// expandPath resolves a leading ~/ against the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}

// withTelemetry runs fn with a timing collector in context when the
// --telemetry flag is set, reporting the tree to stderr afterwards.
func withTelemetry(ctx *kong.Context, globals *Globals, name string, fn func(runCtx context.Context) error) error {
	runCtx := context.Background()
	if !globals.Telemetry {
		return fn(runCtx)
	}

	collector := telemetry.NewTimingCollector()
	runCtx = telemetry.WithCollector(runCtx, collector)
	timer := collector.Start(name)
	defer func() {
		timer.End()
		_, _ = fmt.Fprintln(ctx.Stderr)
		collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
	}()

	return fn(runCtx)
}

// parseDate parses a 2006-01-02 date argument, defaulting to today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want 2006-01-02)", s)
	}
	return d, nil
}
