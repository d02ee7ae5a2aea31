package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/shred03/file-sequence-bot/internal/logger"
)

type NotifyFunc func(message string)

// Alerter sends operator notifications with a per-component/message
// cooldown so a persistently failing dependency does not flood the chat.
type Alerter struct {
	mu        sync.Mutex
	notify    NotifyFunc
	cooldowns map[string]time.Time
	cooldown  time.Duration
}

func New(notify NotifyFunc, cooldown time.Duration) *Alerter {
	return &Alerter{
		notify:    notify,
		cooldowns: make(map[string]time.Time),
		cooldown:  cooldown,
	}
}

func (a *Alerter) Alert(component, message string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := component + ":" + message

	if lastSent, ok := a.cooldowns[key]; ok && time.Since(lastSent) < a.cooldown {
		logger.Debug("alert suppressed (cooldown)", "component", component, "message", message)
		return
	}

	text := fmt.Sprintf("⚠️ %s: %s", component, message)
	if err != nil {
		text += fmt.Sprintf("\n\nError: %v", err)
	}

	if a.notify != nil {
		a.notify(text)
		a.cooldowns[key] = time.Now()
		logger.Info("alert sent", "component", component)
	}
}
