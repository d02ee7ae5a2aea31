package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shred03/file-sequence-bot/internal/logger"
)

// Reaper periodically discards sessions idle beyond the timeout. It is a
// pure garbage-collection sweep: no delivery, no statistics.
type Reaper struct {
	store   *Store
	timeout time.Duration
	cron    *cron.Cron
}

func NewReaper(store *Store, timeout, sweepInterval time.Duration) (*Reaper, error) {
	r := &Reaper{
		store:   store,
		timeout: timeout,
		cron:    cron.New(),
	}

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", sweepInterval), r.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	return r, nil
}

func (r *Reaper) Start() {
	r.cron.Start()
	logger.Info("idle reaper started", "timeout", r.timeout)
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reaper) sweep() {
	for _, userID := range r.store.SweepIdle(r.timeout) {
		logger.Info("idle session reaped", "user", userID)
	}
}
