package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"

	"github.com/sebkoller/bookkeep/currency"
)

// CurrenciesCmd lists the currencies known to the registry.
type CurrenciesCmd struct{}

func (cmd *CurrenciesCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	reg, closeReg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeReg()

	all := reg.All()
	slices.SortFunc(all, func(a, b *currency.Currency) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})

	for _, c := range all {
		marker := ""
		if c == reg.Pivot() {
			marker = " (pivot)"
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%s%d decimals%s\n", padCell(c.Code, 6), c.Exponent, marker)
	}
	return nil
}
