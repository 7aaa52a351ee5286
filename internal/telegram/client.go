// Package telegram wraps the Telegram Bot API: chunked digest delivery to
// the single configured chat, and cursor-driven update polling for the
// command listener.
package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageLimit is the transport's per-message size limit in runes. Digest
// texts longer than this are split into ordered chunks.
const MessageLimit = 3500

// botAPI is the slice of tgbotapi.BotAPI the client uses, extracted so
// tests can substitute a fake.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Client handles all Telegram traffic for one chat.
type Client struct {
	bot    botAPI
	chatID int64
}

// NewClient creates a Telegram client for the given bot token and chat.
func NewClient(botToken, chatID string) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return &Client{bot: bot, chatID: chatIDInt}, nil
}

// ChatID returns the configured chat identifier. The listener uses it to
// ignore messages from anyone else.
func (c *Client) ChatID() int64 {
	return c.chatID
}

// Send delivers text to the configured chat, split into ordered chunks of
// at most MessageLimit runes. The first failed chunk aborts the rest and
// is returned to the caller, which must then treat the whole delivery as
// failed.
func (c *Client) Send(text string) error {
	for i, part := range Chunk(text, MessageLimit) {
		msg := tgbotapi.NewMessage(c.chatID, part)
		if _, err := c.bot.Send(msg); err != nil {
			return fmt.Errorf("send chunk %d: %w", i+1, err)
		}
	}
	return nil
}

// GetUpdates performs one long poll starting at offset. The server holds
// the request up to timeout seconds, so the caller's loop regains control
// periodically even when the chat is silent.
func (c *Client) GetUpdates(offset, timeout int) ([]tgbotapi.Update, error) {
	u := tgbotapi.NewUpdate(offset)
	u.Timeout = timeout
	return c.bot.GetUpdates(u)
}

// Chunk splits text into rune-safe pieces of at most limit runes,
// preserving order.
func Chunk(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var parts []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// Truncate cuts text to at most limit runes. Used for /last replies.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
