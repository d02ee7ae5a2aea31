package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/media"
)

type discord struct {
	session *discordgo.Session
	handler *Handler
	client  *http.Client
	ctx     context.Context
}

func newDiscord(token string) (Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	d := &discord{
		session: session,
		client:  &http.Client{Timeout: 30 * time.Second},
	}

	session.AddHandler(d.handleMessage)

	return d, nil
}

func (d *discord) SetHandler(h *Handler) {
	d.handler = h
}

func (d *discord) Start(ctx context.Context) error {
	d.ctx = ctx

	if err := d.session.Open(); err != nil {
		return err
	}

	logger.Info("discord bot started")

	<-ctx.Done()
	return d.session.Close()
}

func (d *discord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		logger.Error("bad author snowflake", "id", m.Author.ID)
		return
	}

	chatID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		logger.Error("bad channel snowflake", "id", m.ChannelID)
		return
	}

	content := strings.TrimSpace(m.Content)
	if strings.HasPrefix(content, "/") {
		fields := strings.Fields(strings.TrimPrefix(content, "/"))
		if len(fields) == 0 {
			return
		}
		command := strings.ToLower(fields[0])
		logger.Info("command received", "user", userID, "command", command)

		reply := d.handler.Command(d.ctx, userID, chatID, command)
		if err := d.Send(chatID, reply); err != nil {
			logger.Error("command reply failed", "error", err, "channel", m.ChannelID)
		}
		return
	}

	for _, att := range m.Attachments {
		item := media.Item{
			Handle:  att.URL,
			Name:    att.Filename,
			Size:    int64(att.Size),
			Kind:    kindFromContentType(att.ContentType),
			Caption: content,
		}

		ack := d.handler.Media(userID, chatID, item)
		if ack.Text != "" {
			if err := d.Send(chatID, ack.Text); err != nil {
				logger.Error("ingest reply failed", "error", err, "channel", m.ChannelID)
			}
		} else if ack.Typing {
			d.SendTyping(chatID)
		}
	}
}

// kindFromContentType maps an attachment MIME type onto a media kind.
// Anything that is not video or audio is collected as a document.
func kindFromContentType(contentType string) media.Kind {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return media.KindVideo
	case strings.HasPrefix(contentType, "audio/"):
		return media.KindAudio
	default:
		return media.KindDocument
	}
}

func (d *discord) Send(chatID int64, message string) error {
	_, err := d.session.ChannelMessageSend(channelID(chatID), message)
	return err
}

func (d *discord) SendTyping(chatID int64) error {
	return d.session.ChannelTyping(channelID(chatID))
}

func (d *discord) SendDocument(chatID int64, handle, filename, caption string) error {
	if filename == "" {
		filename = baseName(handle)
	}

	return d.sendFile(chatID, handle, filename, caption)
}

func (d *discord) SendVideo(chatID int64, handle, caption string) error {
	return d.sendFile(chatID, handle, baseName(handle), caption)
}

func (d *discord) SendAudio(chatID int64, handle, caption string) error {
	return d.sendFile(chatID, handle, baseName(handle), caption)
}

// sendFile re-uploads the attachment from its CDN URL. Discord has no
// send-by-id primitive, so the handle is the attachment URL.
func (d *discord) sendFile(chatID int64, url, filename, caption string) error {
	resp, err := d.client.Get(url)
	if err != nil {
		return fmt.Errorf("attachment download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("attachment download failed: HTTP %d", resp.StatusCode)
	}

	_, err = d.session.ChannelMessageSendComplex(channelID(chatID), &discordgo.MessageSend{
		Content: caption,
		Files: []*discordgo.File{
			{
				Name:   filename,
				Reader: io.LimitReader(resp.Body, maxMediaSize),
			},
		},
	})

	return err
}

func channelID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// baseName extracts the filename from an attachment URL, dropping any
// query string.
func baseName(url string) string {
	name := path.Base(url)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		return "file"
	}

	return name
}
