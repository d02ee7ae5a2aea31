package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/media"
	"github.com/shred03/file-sequence-bot/internal/retry"
)

// Transport re-sends a queued item to a chat by its native file handle.
// Implemented by the bot layer for each provider.
type Transport interface {
	SendDocument(chatID int64, handle, filename, caption string) error
	SendVideo(chatID int64, handle, caption string) error
	SendAudio(chatID int64, handle, caption string) error
}

// ProgressFunc is called after each completed batch except the last, and
// only when the sequence spans more than one batch.
type ProgressFunc func(chatID int64, batch, batches, sent, total int)

type Config struct {
	BatchSize    int
	ItemDelay    time.Duration
	BatchDelay   time.Duration
	Retry        retry.Policy
	FailureLimit int // failures kept in the report for display
}

type Engine struct {
	transport  Transport
	cfg        Config
	onProgress ProgressFunc
}

func NewEngine(transport Transport, cfg Config, onProgress ProgressFunc) *Engine {
	return &Engine{
		transport:  transport,
		cfg:        cfg,
		onProgress: onProgress,
	}
}

// Deliver sends the ordered items in fixed-size batches, each item wrapped
// in the retry policy. A permanently failed item is recorded and never
// aborts the batch. Deliver itself has no error path: it always returns a
// report, including when ctx is cancelled mid-sequence (remaining items are
// recorded as failed).
func (e *Engine) Deliver(ctx context.Context, chatID int64, items []media.Item) *Report {
	report := newReport(len(items), e.cfg.FailureLimit)

	batches := (len(items) + e.cfg.BatchSize - 1) / e.cfg.BatchSize

	for b := 0; b < batches; b++ {
		start := b * e.cfg.BatchSize
		end := start + e.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		for i, item := range batch {
			if ctx.Err() != nil {
				e.failRemaining(report, items[start+i:], ctx.Err())
				return report
			}

			err := e.cfg.Retry.Do(ctx, func() error {
				return e.send(chatID, item)
			})
			if err != nil {
				report.fail(item, err)
				logger.Warn("item delivery failed", "chat", chatID, "name", item.Name, "error", err)
			} else {
				report.Sent++
			}

			if i < len(batch)-1 {
				if !e.pause(ctx, e.cfg.ItemDelay) {
					e.failRemaining(report, items[start+i+1:], ctx.Err())
					return report
				}
			}
		}

		if b < batches-1 {
			if e.onProgress != nil {
				e.onProgress(chatID, b+1, batches, report.Sent, report.Total)
			}
			if !e.pause(ctx, e.cfg.BatchDelay) {
				e.failRemaining(report, items[end:], ctx.Err())
				return report
			}
		}
	}

	return report
}

func (e *Engine) send(chatID int64, item media.Item) error {
	switch item.Kind {
	case media.KindVideo:
		return e.transport.SendVideo(chatID, item.Handle, item.Caption)
	case media.KindAudio:
		return e.transport.SendAudio(chatID, item.Handle, item.Caption)
	default:
		return e.transport.SendDocument(chatID, item.Handle, item.Name, item.Caption)
	}
}

func (e *Engine) failRemaining(report *Report, remaining []media.Item, cause error) {
	for _, item := range remaining {
		report.fail(item, fmt.Errorf("delivery stopped: %w", cause))
	}
}

// pause sleeps for d, returning false when ctx is cancelled first.
func (e *Engine) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
