package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/sebkoller/bookkeep/currency"
)

// RatesCmd groups the rate database subcommands.
type RatesCmd struct {
	Init RatesInitCmd `cmd:"" help:"Create an empty rate database at the configured path."`
	Set  RatesSetCmd  `cmd:"" help:"Record a currency's value in pivot terms at a date."`
	Get  RatesGetCmd  `cmd:"" help:"Look up the exchange rate into the pivot currency."`
	Span RatesSpanCmd `cmd:"" help:"Show the date span covered by a currency's rate data."`
}

// RatesInitCmd creates the rate database file.
type RatesInitCmd struct {
	Force bool `help:"Overwrite an existing database without asking."`
}

func (cmd *RatesInitCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	if cfg.RatesDB == "" {
		return errors.New("no rates_db path configured")
	}
	path, err := expandPath(cfg.RatesDB)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !cmd.Force {
			overwrite, err := promptYesNo(fmt.Sprintf("Rate database %s exists. Overwrite?", path))
			if err != nil {
				return err
			}
			if !overwrite {
				printInfof(ctx.Stdout, "keeping existing database")
				return nil
			}
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	db, err := currency.OpenRateDB(path)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("rate database created at %s", path))
	return nil
}

// RatesSetCmd records one historical rate point.
type RatesSetCmd struct {
	Code string  `help:"Currency code." arg:""`
	Rate float64 `help:"Value of one unit in pivot terms." arg:""`

	Date string `help:"Rate date (2006-01-02), defaults to today." short:"d"`
}

func (cmd *RatesSetCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	c, ok := reg.Get(cmd.Code)
	if !ok {
		return fmt.Errorf("unknown currency %q", cmd.Code)
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return err
	}

	return withTelemetry(ctx, globals, "rates set", func(runCtx context.Context) error {
		if err := reg.SetPivotValue(date, c, cmd.Rate); err != nil {
			printError(ctx.Stderr, err.Error())
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("%s = %s %s on %s",
			c.Code,
			strconv.FormatFloat(cmd.Rate, 'f', -1, 64),
			reg.Pivot().Code,
			date.Format("2006-01-02")))
		return nil
	})
}

// RatesGetCmd looks up a rate into the pivot currency.
type RatesGetCmd struct {
	Code string `help:"Currency code." arg:""`

	Date string `help:"Lookup date (2006-01-02), defaults to today." short:"d"`
}

func (cmd *RatesGetCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	c, ok := reg.Get(cmd.Code)
	if !ok {
		return fmt.Errorf("unknown currency %q", cmd.Code)
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return err
	}

	return withTelemetry(ctx, globals, "rates get", func(runCtx context.Context) error {
		rate, err := reg.RateAt(date, c, reg.Pivot())
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return err
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%s%s 1 %s = %s %s\n",
			padCell(date.Format("2006-01-02"), 12),
			padCell("", 2),
			c.Code,
			strconv.FormatFloat(rate, 'f', -1, 64),
			reg.Pivot().Code)
		return nil
	})
}

// RatesSpanCmd shows the covered date span for a currency.
type RatesSpanCmd struct {
	Code string `help:"Currency code." arg:""`
}

func (cmd *RatesSpanCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	c, ok := reg.Get(cmd.Code)
	if !ok {
		return fmt.Errorf("unknown currency %q", cmd.Code)
	}

	first, last, err := reg.Store().DateRange(c.Code)
	if errors.Is(err, currency.ErrNoRate) {
		printInfof(ctx.Stdout, "no rate data for %s", c.Code)
		return nil
	}
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%s%s .. %s\n",
		padCell(c.Code, 6),
		first.Format("2006-01-02"),
		last.Format("2006-01-02"))
	return nil
}
