package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shred03/file-sequence-bot/internal/health"
	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/media"
	"github.com/shred03/file-sequence-bot/internal/session"
	"github.com/shred03/file-sequence-bot/internal/stats"
)

// MediaAck tells the transport how to acknowledge an ingested file: a text
// reply for the first few files and every Nth one, a typing action for the
// rest.
type MediaAck struct {
	Text   string
	Typing bool
}

// Handler routes commands and media events to the session manager and
// renders the outcome messages. It is shared by the Telegram and Discord
// transports.
type Handler struct {
	manager       *session.Manager
	store         *session.Store
	stats         *stats.Store
	ownerID       int64
	progressEvery int
	startedAt     time.Time
}

func NewHandler(manager *session.Manager, store *session.Store, statsStore *stats.Store, ownerID int64, progressEvery int) *Handler {
	return &Handler{
		manager:       manager,
		store:         store,
		stats:         statsStore,
		ownerID:       ownerID,
		progressEvery: progressEvery,
		startedAt:     time.Now(),
	}
}

// Command executes one command and returns the reply text. Every command
// yields exactly one message.
func (h *Handler) Command(ctx context.Context, userID, chatID int64, command string) string {
	switch command {
	case "start":
		return greeting
	case "help":
		return helpText
	case "ssequence":
		return h.startSequence(userID, chatID)
	case "esequence":
		return h.endSequence(ctx, userID)
	case "cancel":
		return h.cancel(userID)
	case "status":
		return h.status(userID)
	case "stats":
		return h.userStats(userID)
	case "health":
		return h.health(userID)
	default:
		return "Unknown command. Try /help."
	}
}

func (h *Handler) startSequence(userID, chatID int64) string {
	count, err := h.manager.Start(userID, chatID)
	if errors.Is(err, session.ErrSessionActive) {
		return fmt.Sprintf("A sequence is already active with %d file(s). Send /esequence to deliver it or /cancel to discard it.", count)
	}

	return "Sequence started. Send me your files, then /esequence to get them back in order."
}

func (h *Handler) endSequence(ctx context.Context, userID int64) string {
	report, err := h.manager.Close(ctx, userID)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "No active sequence. Start one with /ssequence."
	case errors.Is(err, session.ErrEmptySession):
		return "The sequence had no files, nothing to deliver."
	case errors.Is(err, session.ErrDelivering):
		return "Delivery is already in progress, hang on."
	case err != nil:
		logger.Error("close failed", "user", userID, "error", err)
		return "Something went wrong closing the sequence."
	}

	return report.Summary()
}

func (h *Handler) cancel(userID int64) string {
	count, err := h.manager.Cancel(userID)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "No active sequence to cancel."
	case errors.Is(err, session.ErrDelivering):
		return "Delivery is in progress and cannot be cancelled."
	}

	return fmt.Sprintf("Sequence cancelled, %d file(s) discarded.", count)
}

func (h *Handler) status(userID int64) string {
	st, err := h.manager.Status(userID)
	if errors.Is(err, session.ErrNoSession) {
		return "No active sequence. Start one with /ssequence."
	}

	return fmt.Sprintf("Sequence open: %d file(s), started %s ago.", st.Items, st.Age.Round(time.Second))
}

func (h *Handler) userStats(userID int64) string {
	if h.stats == nil {
		return "Statistics are not enabled."
	}

	u, err := h.stats.User(userID)
	if err != nil {
		logger.Error("stats lookup failed", "user", userID, "error", err)
		return "Could not load your statistics right now."
	}
	if u == nil {
		return "No completed sequences yet. Start one with /ssequence."
	}

	return fmt.Sprintf(
		"Your stats:\nSequences completed: %d\nFiles delivered: %d\nLast sequence: %d file(s) on %s",
		u.SequencesTotal,
		u.DeliveredTotal,
		u.LastSequenceSize,
		u.LastDeliveredAt.Format("2006-01-02 15:04"),
	)
}

func (h *Handler) health(userID int64) string {
	if h.ownerID == 0 || userID != h.ownerID {
		return "Unknown command. Try /help."
	}

	snap := health.Collect(h.startedAt)

	reply := snap.String()
	reply += fmt.Sprintf("\nOpen sessions: %d", h.store.Count())

	if h.stats != nil {
		if agg, err := h.stats.Aggregate(); err == nil {
			reply += fmt.Sprintf("\nLifetime: %d user(s), %d sequence(s), %d file(s) delivered",
				agg.Users, agg.SequencesTotal, agg.DeliveredTotal)
		}
	}

	return reply
}

// Media ingests one file event and returns the acknowledgment policy.
func (h *Handler) Media(userID, chatID int64, item media.Item) MediaAck {
	count, err := h.manager.Ingest(userID, item)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return MediaAck{Text: "Start a sequence first with /ssequence."}
	case errors.Is(err, session.ErrUnsupportedKind):
		return MediaAck{Text: "I only collect documents, videos, and audio files."}
	case errors.Is(err, session.ErrCapacity):
		return MediaAck{Text: fmt.Sprintf("The sequence is full (%d files). Send /esequence to deliver it.", count)}
	case errors.Is(err, session.ErrDelivering):
		return MediaAck{Text: "Delivery is in progress, this file was not added."}
	}

	if count <= 3 || (h.progressEvery > 0 && count%h.progressEvery == 0) {
		return MediaAck{Text: fmt.Sprintf("Added %s (#%d)", displayName(item), count)}
	}

	return MediaAck{Typing: true}
}

func displayName(item media.Item) string {
	if item.Name == "" {
		return "unnamed file"
	}

	return truncate(item.Name, 60)
}
