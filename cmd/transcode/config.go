package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is read from the working directory when -config is not
// given and the file exists.
const defaultConfigFile = "transcode.toml"

// Config is the transcode.toml layout. Flags override every field.
type Config struct {
	Metadata    string `toml:"metadata"`
	WIT         string `toml:"wit"`
	Format      string `toml:"format"`
	LogLevel    string `toml:"log_level"`
	Color       string `toml:"color"`
	Suggestions int    `toml:"suggestions"`
	Strict      bool   `toml:"strict"`
}

func defaultConfig() Config {
	return Config{
		Format:      "text",
		LogLevel:    "warn",
		Color:       "auto",
		Suggestions: 3,
	}
}

// LoadConfig reads a TOML config over the defaults. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Format {
	case "text", "json", "cbor":
	default:
		return fmt.Errorf("format %q: want text, json or cbor", c.Format)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color %q: want auto, always or never", c.Color)
	}
	if c.Suggestions < 0 {
		return fmt.Errorf("suggestions must not be negative, got %d", c.Suggestions)
	}
	return nil
}
