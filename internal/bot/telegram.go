package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/media"
)

type telegram struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

func newTelegram(token string) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &telegram{api: api}, nil
}

func (t *telegram) SetHandler(h *Handler) {
	t.handler = h
}

func (t *telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	logger.Info("telegram bot started", "username", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			go t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		logger.Info("command received", "user", userID, "command", msg.Command())

		reply := t.handler.Command(ctx, userID, chatID, msg.Command())
		if err := t.Send(chatID, reply); err != nil {
			logger.Error("command reply failed", "error", err, "chat", chatID)
		}
		return
	}

	item, ok := itemFromMessage(msg)
	if !ok {
		logger.Debug("non-media message ignored", "user", userID)
		return
	}

	ack := t.handler.Media(userID, chatID, item)
	if ack.Text != "" {
		if err := t.Send(chatID, ack.Text); err != nil {
			logger.Error("ingest reply failed", "error", err, "chat", chatID)
		}
	} else if ack.Typing {
		t.SendTyping(chatID)
	}
}

// itemFromMessage maps a Telegram media message onto an Item. Photos,
// stickers, and the rest are not collectable kinds.
func itemFromMessage(msg *tgbotapi.Message) (media.Item, bool) {
	switch {
	case msg.Document != nil:
		return media.Item{
			Handle:  msg.Document.FileID,
			Name:    msg.Document.FileName,
			Size:    int64(msg.Document.FileSize),
			Kind:    media.KindDocument,
			Caption: msg.Caption,
		}, true
	case msg.Video != nil:
		return media.Item{
			Handle:  msg.Video.FileID,
			Name:    msg.Video.FileName,
			Size:    int64(msg.Video.FileSize),
			Kind:    media.KindVideo,
			Caption: msg.Caption,
		}, true
	case msg.Audio != nil:
		return media.Item{
			Handle:  msg.Audio.FileID,
			Name:    msg.Audio.FileName,
			Size:    int64(msg.Audio.FileSize),
			Kind:    media.KindAudio,
			Caption: msg.Caption,
		}, true
	}

	return media.Item{}, false
}

func (t *telegram) Send(chatID int64, message string) error {
	msg := tgbotapi.NewMessage(chatID, message)
	_, err := t.api.Send(msg)
	return err
}

func (t *telegram) SendTyping(chatID int64) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument)
	_, err := t.api.Request(action)
	return err
}

func (t *telegram) SendDocument(chatID int64, handle, filename, caption string) error {
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileID(handle))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	if err != nil {
		logger.Debug("send document failed", "error", err, "chat", chatID, "name", truncate(filename, 50))
	}
	return err
}

func (t *telegram) SendVideo(chatID int64, handle, caption string) error {
	msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(handle))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}

func (t *telegram) SendAudio(chatID int64, handle, caption string) error {
	msg := tgbotapi.NewAudio(chatID, tgbotapi.FileID(handle))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}
