package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration in three layers: fixed defaults, an
// optional YAML file (SEQBOT_CONFIG, falling back to sequence.yml when
// present), then environment overrides for provider, tokens, and paths.
func Load() (*Config, error) {
	cfg := defaults()

	if err := loadFile(cfg); err != nil {
		return nil, err
	}

	if provider := os.Getenv("BOT_PROVIDER"); provider != "" {
		cfg.Bot.Provider = provider
	}

	switch cfg.Bot.Provider {
	case "telegram":
		cfg.Bot.Token = os.Getenv("TELEGRAM_TOKEN")
		if cfg.Bot.Token == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN not set")
		}
	case "discord":
		cfg.Bot.Token = os.Getenv("DISCORD_TOKEN")
		if cfg.Bot.Token == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN not set")
		}
	default:
		return nil, fmt.Errorf("unknown BOT_PROVIDER: %s", cfg.Bot.Provider)
	}

	if path := os.Getenv("SEQBOT_DB"); path != "" {
		cfg.StatsPath = path
	}

	if id, err := strconv.ParseInt(os.Getenv("SEQBOT_OWNER_ID"), 10, 64); err == nil {
		cfg.OwnerID = id
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Bot: BotConfig{
			Provider: "telegram",
		},
		Session: SessionConfig{
			MaxItems:         200,
			IdleTimeoutMin:   30,
			SweepIntervalMin: 10,
		},
		Delivery: DeliveryConfig{
			BatchSize:        50,
			ItemDelayMs:      100,
			BatchDelayMs:     100,
			MaxAttempts:      3,
			RetryDelayMs:     1000,
			ProgressInterval: 50,
			FailureLimit:     5,
		},
		StatsPath: "sequence.db",
	}
}

// loadFile overlays the YAML file onto cfg. Absent fields keep their
// defaults; a missing default file is not an error, an explicitly
// configured one is.
func loadFile(cfg *Config) error {
	path := os.Getenv("SEQBOT_CONFIG")
	explicit := path != ""
	if path == "" {
		path = "sequence.yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}
