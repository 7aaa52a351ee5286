package telegram

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	sent    []string
	failAt  int // 1-based index of the send that fails; 0 = never
	updates []tgbotapi.Update
	err     error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return tgbotapi.Message{}, errors.New("transport down")
	}
	f.sent = append(f.sent, msg.Text)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	return f.updates, f.err
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"empty", "", 5, nil},
		{"fits", "hello", 5, []string{"hello"}},
		{"splits", "hello world", 5, []string{"hello", " worl", "d"}},
		{"rune safe", "🟢🔴🟡🟢", 2, []string{"🟢🔴", "🟡🟢"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello", 2); got != "he" {
		t.Errorf("Truncate long = %q", got)
	}
	if got := Truncate("🟢🔴🟡", 2); got != "🟢🔴" {
		t.Errorf("Truncate must cut at rune boundaries, got %q", got)
	}
}

func TestSend_ChunksInOrder(t *testing.T) {
	bot := &fakeBot{}
	c := &Client{bot: bot, chatID: 42}
	text := strings.Repeat("a", MessageLimit) + strings.Repeat("b", 10)

	if err := c.Send(text); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(bot.sent))
	}
	if len(bot.sent[0]) != MessageLimit {
		t.Errorf("first chunk length = %d, want %d", len(bot.sent[0]), MessageLimit)
	}
	if bot.sent[1] != strings.Repeat("b", 10) {
		t.Errorf("second chunk = %q", bot.sent[1])
	}
}

func TestSend_AbortsOnFailure(t *testing.T) {
	bot := &fakeBot{failAt: 2}
	c := &Client{bot: bot, chatID: 42}
	text := strings.Repeat("a", MessageLimit*3)

	if err := c.Send(text); err == nil {
		t.Fatal("expected error from failing chunk")
	}
	// The first chunk went out, then the failure stopped everything.
	if len(bot.sent) != 1 {
		t.Errorf("sent %d messages before aborting, want 1", len(bot.sent))
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	// Chat ID parsing is validated before any network use of the token.
	if _, err := NewClient("", "not-a-number"); err == nil {
		t.Error("expected error for invalid chat ID")
	}
}
