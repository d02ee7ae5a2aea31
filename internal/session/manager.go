package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shred03/file-sequence-bot/internal/delivery"
	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/media"
	"github.com/shred03/file-sequence-bot/internal/retry"
)

// StatsRecorder records a successful close in the lifetime statistics
// store. Best-effort from the Manager's side: a failing recorder never
// fails a close.
type StatsRecorder interface {
	RecordSuccess(userID int64, sequenceID string, delivered int) error
}

// AlertFunc notifies the operator of an infrastructure problem.
type AlertFunc func(component, message string, err error)

type ManagerConfig struct {
	MaxItems   int
	StatsRetry retry.Policy
}

// Manager drives the session state machine: start, ingest, close, cancel,
// status. Close orders the items, hands them to the delivery engine, and
// records statistics; the session is removed on every close exit path.
type Manager struct {
	store  *Store
	engine *delivery.Engine
	stats  StatsRecorder
	alert  AlertFunc
	cfg    ManagerConfig
}

func NewManager(store *Store, engine *delivery.Engine, stats StatsRecorder, alert AlertFunc, cfg ManagerConfig) *Manager {
	return &Manager{
		store:  store,
		engine: engine,
		stats:  stats,
		alert:  alert,
		cfg:    cfg,
	}
}

// Start opens a session for the user. When one is already open it returns
// ErrSessionActive with the current item count, unchanged.
func (m *Manager) Start(userID, chatID int64) (int, error) {
	sess, created := m.store.Create(userID, chatID)
	if !created {
		return sess.Count(), ErrSessionActive
	}

	logger.Info("session started", "user", userID)
	return 0, nil
}

// Ingest validates and appends one item, returning the new count.
func (m *Manager) Ingest(userID int64, item media.Item) (int, error) {
	sess := m.store.Get(userID)
	if sess == nil {
		return 0, ErrNoSession
	}

	if !item.Kind.Valid() {
		return sess.Count(), ErrUnsupportedKind
	}

	item.AddedAt = time.Now()

	count, err := sess.Append(item, m.cfg.MaxItems)
	if err != nil {
		return count, err
	}

	logger.Debug("item ingested", "user", userID, "name", item.Name, "count", count)
	return count, nil
}

// Close orders and delivers the session's items, records statistics, and
// removes the session. Removal happens on every exit path except the
// ErrDelivering rejection of a concurrent close.
func (m *Manager) Close(ctx context.Context, userID int64) (*delivery.Report, error) {
	sess := m.store.Get(userID)
	if sess == nil {
		return nil, ErrNoSession
	}

	if !sess.BeginClose() {
		return nil, ErrDelivering
	}
	defer m.store.Remove(userID)

	items := sess.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptySession
	}

	sequenceID := uuid.New().String()[:8]
	logger.Info("sequence closing", "user", userID, "sequence", sequenceID, "items", len(items))

	ordered := media.Order(items)
	report := m.engine.Deliver(ctx, sess.ChatID, ordered)

	logger.Info("sequence delivered",
		"user", userID,
		"sequence", sequenceID,
		"sent", report.Sent,
		"failed", report.Failed,
	)

	m.recordStats(ctx, userID, sequenceID, report)

	return report, nil
}

// Cancel discards the session and returns the discarded item count.
func (m *Manager) Cancel(userID int64) (int, error) {
	sess := m.store.Get(userID)
	if sess == nil {
		return 0, ErrNoSession
	}

	if !sess.BeginClose() {
		return 0, ErrDelivering
	}

	count := sess.Count()
	m.store.Remove(userID)

	logger.Info("session cancelled", "user", userID, "discarded", count)
	return count, nil
}

func (m *Manager) Status(userID int64) (Status, error) {
	sess := m.store.Get(userID)
	if sess == nil {
		return Status{}, ErrNoSession
	}

	return Status{Items: sess.Count(), Age: sess.Age()}, nil
}

// recordStats updates the lifetime counters after a close. Best-effort:
// failures are logged and alerted, never surfaced to the caller.
func (m *Manager) recordStats(ctx context.Context, userID int64, sequenceID string, report *delivery.Report) {
	if m.stats == nil || report.Sent == 0 {
		return
	}

	err := m.cfg.StatsRetry.Do(ctx, func() error {
		return m.stats.RecordSuccess(userID, sequenceID, report.Sent)
	})
	if err != nil {
		logger.Error("statistics update failed", "user", userID, "sequence", sequenceID, "error", err)
		if m.alert != nil {
			m.alert("stats", "failed to record delivery statistics", err)
		}
	}
}
