package session

import (
	"errors"
	"sync"
	"time"

	"github.com/shred03/file-sequence-bot/internal/media"
)

var (
	ErrNoSession       = errors.New("no active sequence session")
	ErrSessionActive   = errors.New("a sequence session is already active")
	ErrUnsupportedKind = errors.New("unsupported media kind")
	ErrCapacity        = errors.New("session is full")
	ErrEmptySession    = errors.New("session has no files")
	ErrDelivering      = errors.New("delivery in progress")
)

// Session is one user's open file-collection request. All mutable fields
// sit behind mu; the closing flag marks an in-flight close and fences
// ingest, cancel, a second close, and the reaper away from a session whose
// items are being delivered.
type Session struct {
	UserID int64
	ChatID int64

	mu           sync.Mutex
	items        []media.Item
	closing      bool
	startedAt    time.Time
	lastActivity time.Time
}

// Store is the concurrency-safe map of open sessions keyed by user id.
// The Manager and the Reaper are its only writers.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// Status is the read-only view returned by Manager.Status.
type Status struct {
	Items int
	Age   time.Duration
}
