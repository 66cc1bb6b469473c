package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
)

// runCommand executes a CLI invocation against a fresh command tree and
// returns everything written to stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var cmds Commands
	parser, err := kong.New(&cmds, kong.Name("bookkeep"), kong.Bind(&cmds.Globals))
	assert.NoError(t, err)

	var out bytes.Buffer
	parser.Stdout = &out
	parser.Stderr = &out

	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run()
	return out.String(), err
}

// writeConfig drops a config file in a temp dir and returns its path.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookkeep.toml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	cfg := writeConfig(t, `default_currency = "USD"`)

	out, err := runCommand(t, "--config", cfg, "parse", "1234.56")
	assert.NoError(t, err)
	assert.Equal(t, "USD 1,234.56\n", out)
}

func TestParseCommandExpression(t *testing.T) {
	cfg := writeConfig(t, `default_currency = "USD"`)

	out, err := runCommand(t, "--config", cfg, "parse", "-e", "21*2 EUR")
	assert.NoError(t, err)
	assert.Equal(t, "EUR 42.00\n", out)
}

func TestParseCommandStrictUnknownCurrency(t *testing.T) {
	cfg := writeConfig(t, `default_currency = "USD"`)

	_, err := runCommand(t, "--config", cfg, "parse", "--strict", "42 XXX")
	assert.Error(t, err)
}

func TestParseCommandCustomSeparators(t *testing.T) {
	cfg := writeConfig(t, `
default_currency = "EUR"
decimal_sep = ","
grouping_sep = "."
`)

	out, err := runCommand(t, "--config", cfg, "parse", "1234.56")
	assert.NoError(t, err)
	assert.Equal(t, "EUR 1.234,56\n", out)
}

func TestRatesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `
default_currency = "USD"
rates_db = "`+filepath.Join(dir, "rates.db")+`"
`)

	_, err := runCommand(t, "--config", cfg, "rates", "init", "--force")
	assert.NoError(t, err)

	_, err = runCommand(t, "--config", cfg, "rates", "set", "USD", "1.25", "-d", "2020-01-01")
	assert.NoError(t, err)

	out, err := runCommand(t, "--config", cfg, "rates", "get", "USD", "-d", "2020-01-01")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "1 USD = 1.25 CAD"))

	// Rates forward-fill to later dates.
	out, err = runCommand(t, "--config", cfg, "rates", "get", "USD", "-d", "2020-03-01")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "1.25"))
}

func TestRatesSpan(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `rates_db = "`+filepath.Join(dir, "rates.db")+`"`)

	_, err := runCommand(t, "--config", cfg, "rates", "set", "EUR", "1.5", "-d", "2020-01-01")
	assert.NoError(t, err)
	_, err = runCommand(t, "--config", cfg, "rates", "set", "EUR", "1.6", "-d", "2020-02-01")
	assert.NoError(t, err)

	out, err := runCommand(t, "--config", cfg, "rates", "span", "EUR")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "2020-01-01 .. 2020-02-01"))
}

func TestRatesSpanEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `rates_db = "`+filepath.Join(dir, "rates.db")+`"`)

	out, err := runCommand(t, "--config", cfg, "rates", "span", "EUR")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "no rate data"))
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `
default_currency = "USD"
rates_db = "`+filepath.Join(dir, "rates.db")+`"
`)

	_, err := runCommand(t, "--config", cfg, "rates", "set", "USD", "1.25", "-d", "2020-01-01")
	assert.NoError(t, err)

	out, err := runCommand(t, "--config", cfg, "convert", "100 USD", "CAD", "-d", "2020-01-01")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "CAD 125.00"))
}

func TestConvertCommandUnknownTarget(t *testing.T) {
	cfg := writeConfig(t, `default_currency = "USD"`)

	_, err := runCommand(t, "--config", cfg, "convert", "100 USD", "XXX")
	assert.Error(t, err)
}

func TestCurrenciesCommand(t *testing.T) {
	cfg := writeConfig(t, ``)

	out, err := runCommand(t, "--config", cfg, "currencies")
	assert.NoError(t, err)

	// Builtins, sorted, with the pivot marked.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "CAD"))
	assert.True(t, strings.Contains(lines[0], "(pivot)"))
	assert.True(t, strings.HasPrefix(lines[1], "EUR"))
	assert.True(t, strings.HasPrefix(lines[2], "USD"))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2020-06-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("15/06/2020")
	assert.Error(t, err)

	today, err := parseDate("")
	assert.NoError(t, err)
	assert.Zero(t, today.Hour())
}

func TestPadCell(t *testing.T) {
	assert.Equal(t, "abc   ", padCell("abc", 6))
	assert.Equal(t, "abcdef", padCell("abcdef", 3))
	// Wide runes occupy two cells.
	assert.Equal(t, "日本  ", padCell("日本", 6))
}
