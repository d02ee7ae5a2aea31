package bot

import (
	"fmt"
)

func New(cfg Config) (Bot, error) {
	switch cfg.Provider {
	case "telegram":
		return newTelegram(cfg.Token)
	case "discord":
		return newDiscord(cfg.Token)
	default:
		return nil, fmt.Errorf("unknown bot provider: %s", cfg.Provider)
	}
}
