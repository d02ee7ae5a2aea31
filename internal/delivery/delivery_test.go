package delivery

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shred03/file-sequence-bot/internal/media"
	"github.com/shred03/file-sequence-bot/internal/retry"
)

// fakeTransport records sent handles and lets tests fail calls selectively.
type fakeTransport struct {
	sent     []string
	failWith func(handle string) error
}

func (f *fakeTransport) deliver(handle string) error {
	if f.failWith != nil {
		if err := f.failWith(handle); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, handle)
	return nil
}

func (f *fakeTransport) SendDocument(chatID int64, handle, filename, caption string) error {
	return f.deliver(handle)
}

func (f *fakeTransport) SendVideo(chatID int64, handle, caption string) error {
	return f.deliver(handle)
}

func (f *fakeTransport) SendAudio(chatID int64, handle, caption string) error {
	return f.deliver(handle)
}

func testConfig(batchSize int) Config {
	return Config{
		BatchSize:    batchSize,
		ItemDelay:    0,
		BatchDelay:   0,
		Retry:        retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond},
		FailureLimit: 5,
	}
}

func testItems(n int) []media.Item {
	items := make([]media.Item, n)
	for i := range items {
		items[i] = media.Item{
			Handle: fmt.Sprintf("file-%03d", i),
			Name:   fmt.Sprintf("file-%03d.mkv", i),
			Kind:   media.KindDocument,
		}
	}
	return items
}

func TestDeliverAllSucceed(t *testing.T) {
	transport := &fakeTransport{}
	engine := NewEngine(transport, testConfig(50), nil)

	report := engine.Deliver(context.Background(), 1, testItems(7))

	if report.Total != 7 || report.Sent != 7 || report.Failed != 0 {
		t.Errorf("unexpected report: total=%d sent=%d failed=%d", report.Total, report.Sent, report.Failed)
	}
	if len(transport.sent) != 7 {
		t.Errorf("expected 7 sends, got %d", len(transport.sent))
	}
}

func TestDeliverPreservesOrder(t *testing.T) {
	transport := &fakeTransport{}
	engine := NewEngine(transport, testConfig(3), nil)

	items := testItems(8)
	engine.Deliver(context.Background(), 1, items)

	for i, handle := range transport.sent {
		if handle != items[i].Handle {
			t.Fatalf("position %d: expected %s, got %s", i, items[i].Handle, handle)
		}
	}
}

func TestDeliverAllFail(t *testing.T) {
	transport := &fakeTransport{
		failWith: func(string) error { return errors.New("blocked by peer") },
	}
	engine := NewEngine(transport, testConfig(50), nil)

	report := engine.Deliver(context.Background(), 1, testItems(8))

	if report.Sent != 0 {
		t.Errorf("expected 0 sent, got %d", report.Sent)
	}
	if report.Failed != 8 {
		t.Errorf("expected 8 failed, got %d", report.Failed)
	}
	if len(report.Failures) != 5 {
		t.Errorf("expected failure list capped at 5, got %d", len(report.Failures))
	}
	if report.Omitted != 3 {
		t.Errorf("expected 3 omitted, got %d", report.Omitted)
	}
}

func TestDeliverSingleFailureDoesNotAbort(t *testing.T) {
	transport := &fakeTransport{
		failWith: func(handle string) error {
			if handle == "file-002" {
				return errors.New("too large")
			}
			return nil
		},
	}
	engine := NewEngine(transport, testConfig(50), nil)

	report := engine.Deliver(context.Background(), 1, testItems(5))

	if report.Sent != 4 || report.Failed != 1 {
		t.Errorf("expected 4 sent / 1 failed, got %d / %d", report.Sent, report.Failed)
	}
	if report.Failures[0].Name != "file-002.mkv" {
		t.Errorf("unexpected failure entry: %+v", report.Failures[0])
	}
}

func TestDeliverRetriesTransientFailure(t *testing.T) {
	attempts := 0
	transport := &fakeTransport{
		failWith: func(handle string) error {
			attempts++
			if attempts == 1 {
				return errors.New("flood wait")
			}
			return nil
		},
	}
	engine := NewEngine(transport, testConfig(50), nil)

	report := engine.Deliver(context.Background(), 1, testItems(1))

	if report.Sent != 1 {
		t.Errorf("expected retry to recover, report: %+v", report)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestDeliverProgressAtBatchBoundaries(t *testing.T) {
	transport := &fakeTransport{}

	var progress []int
	engine := NewEngine(transport, testConfig(10), func(chatID int64, batch, batches, sent, total int) {
		progress = append(progress, batch)
		if batches != 3 {
			t.Errorf("expected 3 batches, got %d", batches)
		}
	})

	engine.Deliver(context.Background(), 1, testItems(25))

	// all batches but the last report progress
	if len(progress) != 2 || progress[0] != 1 || progress[1] != 2 {
		t.Errorf("unexpected progress calls: %v", progress)
	}
}

func TestDeliverNoProgressForSingleBatch(t *testing.T) {
	transport := &fakeTransport{}

	calls := 0
	engine := NewEngine(transport, testConfig(50), func(int64, int, int, int, int) {
		calls++
	})

	engine.Deliver(context.Background(), 1, testItems(10))

	if calls != 0 {
		t.Errorf("expected no progress for a single batch, got %d calls", calls)
	}
}

func TestDeliverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	transport := &fakeTransport{
		failWith: func(handle string) error {
			if handle == "file-002" {
				cancel()
			}
			return nil
		},
	}
	engine := NewEngine(transport, testConfig(50), nil)

	report := engine.Deliver(ctx, 1, testItems(6))

	if report.Sent+report.Failed != report.Total {
		t.Errorf("report does not account for all items: %+v", report)
	}
	if report.Failed == 0 {
		t.Error("expected remaining items recorded as failed after cancellation")
	}
}
