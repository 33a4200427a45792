package config

type Config struct {
	Storage StorageConfig
	Daemon  DaemonConfig
	Log     LogConfig
}

type StorageConfig struct {
	DataDir string
}

type DaemonConfig struct {
	// Port is the localhost health-endpoint port.
	Port int
	// PollInterval, Snooze, and Backoff are duration strings
	// (e.g. "30s", "5m"); parsed where they are used.
	PollInterval string
	Snooze       string
	Backoff      string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Daemon: DaemonConfig{
			Port:         7763,
			PollInterval: "30s",
			Snooze:       "5m",
			Backoff:      "2m",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/remind/config.json, then applies REMIND_*
// environment variable overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
