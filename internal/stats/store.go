package stats

import (
	"database/sql"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_stats (
	user_id INTEGER PRIMARY KEY,
	delivered_total INTEGER NOT NULL DEFAULT 0,
	sequences_total INTEGER NOT NULL DEFAULT 0,
	last_sequence_id TEXT NOT NULL DEFAULT '',
	last_sequence_size INTEGER NOT NULL DEFAULT 0,
	last_delivered_at DATETIME,
	first_seen_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Store holds per-user lifetime delivery counters. Counters are only ever
// incremented; the last-sequence columns are refreshed in place.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// RecordSuccess adds one completed sequence to the user's lifetime totals.
func (s *Store) RecordSuccess(userID int64, sequenceID string, delivered int) error {
	_, err := s.db.Exec(`
		INSERT INTO user_stats (user_id, delivered_total, sequences_total, last_sequence_id, last_sequence_size, last_delivered_at)
		VALUES (?, ?, 1, ?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
			delivered_total = delivered_total + excluded.delivered_total,
			sequences_total = sequences_total + 1,
			last_sequence_id = excluded.last_sequence_id,
			last_sequence_size = excluded.last_sequence_size,
			last_delivered_at = excluded.last_delivered_at`,
		userID, delivered, sequenceID, delivered)

	return err
}

type UserStats struct {
	UserID           int64
	DeliveredTotal   int
	SequencesTotal   int
	LastSequenceID   string
	LastSequenceSize int
	LastDeliveredAt  time.Time
	FirstSeenAt      time.Time
}

// User returns the user's lifetime stats, or nil when the user has never
// completed a sequence.
func (s *Store) User(userID int64) (*UserStats, error) {
	row := s.db.QueryRow(`
		SELECT user_id, delivered_total, sequences_total, last_sequence_id, last_sequence_size, last_delivered_at, first_seen_at
		FROM user_stats
		WHERE user_id = ?`, userID)

	var u UserStats
	var lastDelivered sql.NullTime
	err := row.Scan(&u.UserID, &u.DeliveredTotal, &u.SequencesTotal, &u.LastSequenceID, &u.LastSequenceSize, &lastDelivered, &u.FirstSeenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastDelivered.Valid {
		u.LastDeliveredAt = lastDelivered.Time
	}

	return &u, nil
}

type Aggregate struct {
	Users          int
	DeliveredTotal int
	SequencesTotal int
}

// Aggregate sums the lifetime counters across all users.
func (s *Store) Aggregate() (*Aggregate, error) {
	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(delivered_total), 0),
			COALESCE(SUM(sequences_total), 0)
		FROM user_stats`)

	var agg Aggregate
	if err := row.Scan(&agg.Users, &agg.DeliveredTotal, &agg.SequencesTotal); err != nil {
		return nil, err
	}

	return &agg, nil
}
