// Package config loads settings from an optional TOML file with
// environment-variable overrides; env wins so deployments can keep the
// file minimal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	TelegramToken string `toml:"telegram_token"`
	DatabaseURL   string `toml:"database_url"`

	// RedisAddr empty means in-memory sessions.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	Port int `toml:"port"`

	// WebhookURL switches the gateway from long polling to webhook mode.
	WebhookURL    string `toml:"webhook_url"`
	WebhookSecret string `toml:"webhook_secret"`

	// DigestHours is the low-stock digest period; 0 disables the job.
	DigestHours int `toml:"digest_hours"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{Port: 8080}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	overrideString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.RedisPassword, "REDIS_PASSWORD")
	overrideInt(&cfg.RedisDB, "REDIS_DB")
	overrideInt(&cfg.Port, "PORT")
	overrideString(&cfg.WebhookURL, "WEBHOOK_URL")
	overrideString(&cfg.WebhookSecret, "WEBHOOK_SECRET")
	overrideInt(&cfg.DigestHours, "DIGEST_HOURS")

	if cfg.TelegramToken == "" {
		return nil, errors.New("no Telegram token configured (set TELEGRAM_TOKEN)")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("no database configured (set DATABASE_URL)")
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
