// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken       string  `env:"BOT_TOKEN"`
	MongoURI       string  `env:"MONGO_URI,required,notEmpty"`
	MongoDBName    string  `env:"MONGO_DB_NAME" envDefault:"button_game"`
	AdminIDs       []int64 `env:"ADMIN_IDS" envSeparator:","`
	InitialAdminID int64   `env:"INITIAL_ADMIN_ID"`
	HTTPAddr       string  `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load reads .env if present, then parses the environment. BOT_TOKEN is only
// required by the bot binary, which validates it itself; initdb runs without
// one.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// AdminRoster merges ADMIN_IDS with the legacy INITIAL_ADMIN_ID variable,
// dropping duplicates and keeping order.
func (c Config) AdminRoster() []int64 {
	ids := c.AdminIDs
	if c.InitialAdminID != 0 {
		ids = append(ids, c.InitialAdminID)
	}

	seen := make(map[int64]bool, len(ids))
	roster := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		roster = append(roster, id)
	}
	return roster
}
