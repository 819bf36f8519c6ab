package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zephyrtronium/rpn"
)

// config is the contents of a configuration file.
type config struct {
	// Precision is the precision of calculations in bits.
	Precision uint `toml:"precision"`
	// Format is the fmt verb used to print results.
	Format string `toml:"format"`
	// History is the file holding the line editor's history. Empty means no
	// history is kept.
	History string `toml:"history"`
	// Extended enables exp, ln, and ^.
	Extended bool `toml:"extended"`
	// Vars gives initial values of variables as decimal strings.
	Vars map[string]string `toml:"vars"`
}

func defaultConfig() config {
	c := config{Precision: 64, Format: "%g"}
	if home, err := os.UserHomeDir(); err == nil {
		c.History = filepath.Join(home, ".rpn_history")
	}
	return c
}

// defaultConfigFile returns the path of the configuration file used when none
// is named, or the empty string if there is none.
func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	name := filepath.Join(dir, "rpn", "config.toml")
	if _, err := os.Stat(name); err != nil {
		return ""
	}
	return name
}

// loadConfig reads a configuration file over the defaults. An empty name gives
// the defaults.
func loadConfig(name string) (config, error) {
	c := defaultConfig()
	if name == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(name, &c)
	if err != nil {
		return c, fmt.Errorf("config %s: %w", name, err)
	}
	if u := md.Undecoded(); len(u) != 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return c, fmt.Errorf("config %s: unknown keys %s", name, strings.Join(keys, ", "))
	}
	if err := c.check(); err != nil {
		return c, fmt.Errorf("config %s: %w", name, err)
	}
	return c, nil
}

func (c *config) check() error {
	if c.Precision == 0 || c.Precision > big.MaxPrec {
		return fmt.Errorf("precision %d out of range", c.Precision)
	}
	if !strings.Contains(c.Format, "%") {
		return fmt.Errorf("format %q has no verb", c.Format)
	}
	if s := fmt.Sprintf(c.Format, big.NewFloat(1.5)); strings.Contains(s, "%!") {
		return fmt.Errorf("format %q can't format numbers: %s", c.Format, s)
	}
	for k, v := range c.Vars {
		if _, _, err := big.ParseFloat(v, 10, c.Precision, big.ToNearestEven); err != nil {
			return fmt.Errorf("variable %s: %w", k, err)
		}
	}
	return nil
}

// engine creates an engine with the configured options.
func (c *config) engine() *rpn.Engine {
	opts := []rpn.Option{rpn.Prec(c.Precision)}
	if c.Extended {
		opts = append(opts, rpn.Ops(rpn.Extended()...))
	}
	for k, v := range c.Vars {
		x, _, err := big.ParseFloat(v, 10, c.Precision, big.ToNearestEven)
		if err != nil {
			// check rejects these.
			panic(err)
		}
		opts = append(opts, rpn.SetVar(k, x))
	}
	return rpn.New(opts...)
}
