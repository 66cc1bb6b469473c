package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/sebkoller/bookkeep/amount"
)

// ConvertCmd converts an amount into another currency at a given date's
// exchange rate.
type ConvertCmd struct {
	Amount string `help:"Amount to convert, e.g. '100 USD'." arg:""`
	To     string `help:"Target currency code." arg:""`

	Date     string `help:"Conversion date (2006-01-02), defaults to today." short:"d"`
	Currency string `help:"Default currency for amounts without a code." short:"c"`
}

func (cmd *ConvertCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	target, ok := reg.Get(cmd.To)
	if !ok {
		err := fmt.Errorf("unknown currency %q", cmd.To)
		printError(ctx.Stderr, err.Error())
		return err
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return err
	}

	defaultCurrency := cmd.Currency
	if defaultCurrency == "" {
		defaultCurrency = cfg.DefaultCurrency
	}

	return withTelemetry(ctx, globals, "convert", func(runCtx context.Context) error {
		a, err := amount.Parse(reg, cmd.Amount, defaultCurrency, amount.ParseOptions{
			WithExpression: true,
		})
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return err
		}

		converted, err := amount.Convert(reg, a, target, date)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return err
		}

		decimalSep, groupingSep := cfg.separators()
		opts := amount.FormatOptions{
			WithCurrency: true,
			DecimalSep:   decimalSep,
			GroupingSep:  groupingSep,
		}
		from := amount.Format(a, opts)
		_, _ = fmt.Fprintf(ctx.Stdout, "%s= %s\n", padCell(from, 20), amount.Format(converted, opts))
		return nil
	})
}
