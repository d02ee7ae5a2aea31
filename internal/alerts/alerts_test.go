package alerts

import (
	"errors"
	"testing"
	"time"
)

func TestAlertCooldown(t *testing.T) {
	var sent []string
	a := New(func(message string) {
		sent = append(sent, message)
	}, time.Hour)

	a.Alert("stats", "record failed", errors.New("db locked"))
	a.Alert("stats", "record failed", errors.New("db locked"))

	if len(sent) != 1 {
		t.Errorf("expected 1 alert within cooldown, got %d", len(sent))
	}
}

func TestAlertDistinctKeys(t *testing.T) {
	var sent []string
	a := New(func(message string) {
		sent = append(sent, message)
	}, time.Hour)

	a.Alert("stats", "record failed", nil)
	a.Alert("stats", "open failed", nil)

	if len(sent) != 2 {
		t.Errorf("expected 2 alerts for distinct messages, got %d", len(sent))
	}
}

func TestAlertCooldownExpires(t *testing.T) {
	var sent []string
	a := New(func(message string) {
		sent = append(sent, message)
	}, 10*time.Millisecond)

	a.Alert("stats", "record failed", nil)
	time.Sleep(20 * time.Millisecond)
	a.Alert("stats", "record failed", nil)

	if len(sent) != 2 {
		t.Errorf("expected alert after cooldown expiry, got %d", len(sent))
	}
}
