package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const DefaultTimezone = "America/New_York"

type Config struct {
	MessengerRoot string `toml:"messenger_root"`
	DiscordRoot   string `toml:"discord_root"`
	DBPath        string `toml:"db_path"`
	Timezone      string `toml:"timezone"`
	WakingDay     bool   `toml:"waking_day"`
	Dictionary    string `toml:"dictionary"` // extra corrector words, optional

	// Path is the config file that was read, empty when none exists.
	Path string `toml:"-"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MessengerRoot: filepath.Join(home, "chats", "messenger"),
		DiscordRoot:   filepath.Join(home, "chats", "discord"),
		DBPath:        filepath.Join(home, ".config", "chats", "chats.db"),
		Timezone:      DefaultTimezone,
	}

	cfgPath := os.Getenv("CHATS_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "chats", "config.toml")
	}
	cfgPath = expandHome(cfgPath, home)
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	// expand ~ in paths
	cfg.MessengerRoot = expandHome(cfg.MessengerRoot, home)
	cfg.DiscordRoot = expandHome(cfg.DiscordRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.Dictionary = expandHome(cfg.Dictionary, home)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.LoadLocation(DefaultTimezone)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
