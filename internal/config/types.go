package config

import "time"

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Session  SessionConfig  `yaml:"session"`
	Delivery DeliveryConfig `yaml:"delivery"`

	StatsPath string `yaml:"-"`
	OwnerID   int64  `yaml:"-"`
}

type BotConfig struct {
	Provider string `yaml:"provider"`
	Token    string `yaml:"-"`
}

type SessionConfig struct {
	MaxItems         int `yaml:"max_items"`
	IdleTimeoutMin   int `yaml:"idle_timeout_min"`
	SweepIntervalMin int `yaml:"sweep_interval_min"`
}

func (c SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMin) * time.Minute
}

func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMin) * time.Minute
}

type DeliveryConfig struct {
	BatchSize        int `yaml:"batch_size"`
	ItemDelayMs      int `yaml:"item_delay_ms"`
	BatchDelayMs     int `yaml:"batch_delay_ms"`
	MaxAttempts      int `yaml:"max_attempts"`
	RetryDelayMs     int `yaml:"retry_delay_ms"`
	ProgressInterval int `yaml:"progress_interval"`
	FailureLimit     int `yaml:"failure_limit"`
}

func (c DeliveryConfig) ItemDelay() time.Duration {
	return time.Duration(c.ItemDelayMs) * time.Millisecond
}

func (c DeliveryConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

func (c DeliveryConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
