package session

import (
	"time"

	"github.com/shred03/file-sequence-bot/internal/media"
)

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Create atomically creates a session for the user. When one already
// exists it is returned with created=false, so two concurrent starts can
// never both succeed.
func (s *Store) Create(userID, chatID int64) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[userID]; ok {
		return existing, false
	}

	now := time.Now()
	sess = &Session{
		UserID:       userID,
		ChatID:       chatID,
		startedAt:    now,
		lastActivity: now,
	}
	s.sessions[userID] = sess

	return sess, true
}

func (s *Store) Get(userID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[userID]
}

func (s *Store) Remove(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// SweepIdle removes sessions idle for longer than timeout and returns their
// user ids. A session whose close is in flight is skipped: BeginClose fails
// for it, and the idle re-check after the fence catches an ingest that
// raced the sweep.
func (s *Store) SweepIdle(timeout time.Duration) []int64 {
	s.mu.RLock()
	var candidates []*Session
	for _, sess := range s.sessions {
		if sess.Idle() > timeout {
			candidates = append(candidates, sess)
		}
	}
	s.mu.RUnlock()

	var reaped []int64
	for _, sess := range candidates {
		if !sess.BeginClose() {
			continue
		}
		if sess.Idle() <= timeout {
			sess.EndClose()
			continue
		}
		s.Remove(sess.UserID)
		reaped = append(reaped, sess.UserID)
	}

	return reaped
}

// Append adds an item while the session is open, refreshing last-activity,
// and returns the new count.
func (sess *Session) Append(item media.Item, max int) (int, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closing {
		return len(sess.items), ErrDelivering
	}
	if len(sess.items) >= max {
		return len(sess.items), ErrCapacity
	}

	sess.items = append(sess.items, item)
	sess.lastActivity = time.Now()

	return len(sess.items), nil
}

func (sess *Session) Count() int {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return len(sess.items)
}

func (sess *Session) Age() time.Duration {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return time.Since(sess.startedAt)
}

func (sess *Session) Idle() time.Duration {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return time.Since(sess.lastActivity)
}

// Snapshot copies the item list so delivery can run without holding any
// session or store lock.
func (sess *Session) Snapshot() []media.Item {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	items := make([]media.Item, len(sess.items))
	copy(items, sess.items)

	return items
}

// BeginClose marks the session as closing. Returns false when another
// close already holds the flag.
func (sess *Session) BeginClose() bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closing {
		return false
	}
	sess.closing = true

	return true
}

func (sess *Session) EndClose() {
	sess.mu.Lock()
	sess.closing = false
	sess.mu.Unlock()
}
