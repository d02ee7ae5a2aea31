package bot

import (
	"context"
)

// Bot is one chat provider. The send-by-handle methods satisfy
// delivery.Transport, so the delivery engine talks straight to the
// provider that received the files.
type Bot interface {
	Start(ctx context.Context) error
	Send(chatID int64, message string) error
	SendTyping(chatID int64) error
	SendDocument(chatID int64, handle, filename, caption string) error
	SendVideo(chatID int64, handle, caption string) error
	SendAudio(chatID int64, handle, caption string) error
	SetHandler(h *Handler)
}

type Config struct {
	Provider string
	Token    string
}
