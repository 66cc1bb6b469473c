package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/sebkoller/bookkeep/amount"
)

// ParseCmd parses an amount string and prints its normalized form.
type ParseCmd struct {
	Text string `help:"Amount text, e.g. '42.13 EUR' or '21*2 USD'." arg:""`

	Currency    string `help:"Default currency for amounts without a code." short:"c"`
	Expression  bool   `help:"Evaluate arithmetic expressions." short:"e"`
	AutoDecimal bool   `help:"Treat bare digits as minor units (1234 -> 12.34)."`
	Strict      bool   `help:"Reject unknown currency codes."`
	Debug       bool   `help:"Dump the parsed amount structure."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	defaultCurrency := cmd.Currency
	if defaultCurrency == "" {
		defaultCurrency = cfg.DefaultCurrency
	}

	return withTelemetry(ctx, globals, "parse", func(runCtx context.Context) error {
		a, err := amount.Parse(reg, cmd.Text, defaultCurrency, amount.ParseOptions{
			WithExpression:   cmd.Expression,
			AutoDecimalPlace: cmd.AutoDecimal || cfg.AutoDecimalPlace,
			StrictCurrency:   cmd.Strict,
		})
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return err
		}

		if cmd.Debug {
			repr.Println(a)
			return nil
		}

		decimalSep, groupingSep := cfg.separators()
		_, _ = fmt.Fprintln(ctx.Stdout, amount.Format(a, amount.FormatOptions{
			WithCurrency: true,
			DecimalSep:   decimalSep,
			GroupingSep:  groupingSep,
		}))
		return nil
	})
}
