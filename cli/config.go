package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the user-level settings read from the TOML config file.
// Zero values mean "use the builtin default"; flags override file values.
type Config struct {
	DefaultCurrency  string `toml:"default_currency"`
	DecimalSep       string `toml:"decimal_sep"`
	GroupingSep      string `toml:"grouping_sep"`
	AutoDecimalPlace bool   `toml:"auto_decimal_place"`
	RatesDB          string `toml:"rates_db"`
}

// DefaultConfigPath returns the conventional config location,
// $XDG_CONFIG_HOME/bookkeep.toml or ~/.config/bookkeep.toml.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bookkeep.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookkeep.toml"
	}
	return filepath.Join(home, ".config", "bookkeep.toml")
}

// LoadConfig reads the config file at path. A missing file is not an error;
// it yields the builtin defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		DefaultCurrency: "USD",
		DecimalSep:      ".",
		GroupingSep:     ",",
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %q: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// separators returns the configured decimal and grouping separators as
// runes, falling back to the defaults on empty values.
func (c Config) separators() (decimal, grouping rune) {
	decimal, grouping = '.', ','
	if c.DecimalSep != "" {
		decimal = []rune(c.DecimalSep)[0]
	}
	if c.GroupingSep != "" {
		grouping = []rune(c.GroupingSep)[0]
	}
	return decimal, grouping
}
