// Package listener implements the command loop: long-poll for inbound
// chat messages, filter by sender, and dispatch the /run, /status and
// /last commands. The loop is infinite and only ends with the process.
package listener

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ekiren/bistsignal/internal/logger"
	"github.com/ekiren/bistsignal/internal/telegram"
)

const (
	helpReply = "Commands:\n/run\n/status\n/last"
	noRuns    = "no runs recorded yet"
)

// Transport is the slice of the Telegram client the listener needs.
type Transport interface {
	Send(text string) error
	GetUpdates(offset, timeout int) ([]tgbotapi.Update, error)
	ChatID() int64
}

// StateReader exposes the persisted run markers for status queries.
type StateReader interface {
	LastRun() string
	LastDigest() string
}

// Config tunes the polling loop.
type Config struct {
	// PollTimeout is the server-side long-poll timeout in seconds.
	PollTimeout int
	// RetryPause is the fixed pause after a failed poll.
	RetryPause time.Duration
}

// Listener polls for commands from the configured chat and dispatches
// them. The update offset is its only state; it is never rolled back, so
// each inbound message is handled at most once per session.
type Listener struct {
	transport Transport
	state     StateReader
	run       func()
	cfg       Config

	offset int
}

// New creates a listener. run is invoked as a detached goroutine when the
// /run command arrives; the listener never waits for it.
func New(transport Transport, state StateReader, run func(), cfg Config) *Listener {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30
	}
	if cfg.RetryPause <= 0 {
		cfg.RetryPause = 3 * time.Second
	}
	return &Listener{transport: transport, state: state, run: run, cfg: cfg}
}

// Run announces the bot and polls until ctx is cancelled. Transport errors
// pause the loop briefly and re-poll with the same offset, preserving
// at-least-once delivery of inbound commands.
func (l *Listener) Run(ctx context.Context) {
	if err := l.transport.Send("🤖 BIST signal bot is up.\nCommands: /run /status /last"); err != nil {
		logger.Warn("announce failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("listener stopped")
			return
		default:
		}
		l.poll(ctx)
	}
}

// poll performs one poll-dispatch cycle.
func (l *Listener) poll(ctx context.Context) {
	updates, err := l.transport.GetUpdates(l.offset, l.cfg.PollTimeout)
	if err != nil {
		logger.Warn("poll failed: %v", err)
		l.pause(ctx)
		return
	}

	for _, update := range updates {
		l.offset = update.UpdateID + 1

		msg := update.Message
		if msg == nil || msg.Chat == nil {
			continue
		}
		// Only the configured chat may command the bot; everyone else is
		// ignored without a reply.
		if msg.Chat.ID != l.transport.ChatID() {
			continue
		}
		l.dispatch(strings.TrimSpace(msg.Text))
	}
}

func (l *Listener) dispatch(text string) {
	logger.Info("received command: %s", text)

	switch text {
	case "/run":
		l.reply("⏳ Starting a run...")
		if l.run != nil {
			go l.run()
		}
	case "/status":
		last := l.state.LastRun()
		if last == "" {
			last = noRuns
		}
		l.reply("📌 Last run:\n" + last)
	case "/last":
		digest := l.state.LastDigest()
		if digest == "" {
			digest = noRuns
		}
		l.reply(telegram.Truncate(digest, telegram.MessageLimit))
	default:
		l.reply(helpReply)
	}
}

func (l *Listener) reply(text string) {
	if err := l.transport.Send(text); err != nil {
		logger.Error("send reply: %v", err)
	}
}

func (l *Listener) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(l.cfg.RetryPause):
	}
}

// Offset exposes the poll cursor for tests and diagnostics.
func (l *Listener) Offset() int {
	return l.offset
}
