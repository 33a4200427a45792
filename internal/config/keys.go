package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "storage.data_dir", typ: kString, env: "REMIND_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "daemon.port", typ: kInt, env: "REMIND_DAEMON_PORT",
		apply:   func(cfg *Config, v any) { cfg.Daemon.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Daemon.Port },
	},
	{
		key: "daemon.poll_interval", typ: kDuration, env: "REMIND_DAEMON_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Daemon.PollInterval = v.(string) },
		extract: func(cfg Config) any { return cfg.Daemon.PollInterval },
	},
	{
		key: "daemon.snooze", typ: kDuration, env: "REMIND_DAEMON_SNOOZE",
		apply:   func(cfg *Config, v any) { cfg.Daemon.Snooze = v.(string) },
		extract: func(cfg Config) any { return cfg.Daemon.Snooze },
	},
	{
		key: "daemon.backoff", typ: kDuration, env: "REMIND_DAEMON_BACKOFF",
		apply:   func(cfg *Config, v any) { cfg.Daemon.Backoff = v.(string) },
		extract: func(cfg Config) any { return cfg.Daemon.Backoff },
	},
	{
		key: "log.level", typ: kString, env: "REMIND_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		switch s.typ {
		case kString, kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if !ok {
				continue
			}
			if s.typ == kDuration {
				if _, err := time.ParseDuration(v); err != nil {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from config key %s=%q: %v. Using default value.\n", s.key, v, err)
					continue
				}
			}
			s.apply(cfg, v)
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kDuration:
			if _, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, raw)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
