package channel

import (
	"net/http"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aquabotdev/aquabot/internal/bus"
	"github.com/aquabotdev/aquabot/internal/config"
)

func TestBaseChannel_Name(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, nil)
	if ch.Name() != "test" {
		t.Errorf("Name = %q, want test", ch.Name())
	}
}

func TestBaseChannel_IsAllowed_NoFilter(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, nil)
	if !ch.IsAllowed("anyone") {
		t.Error("should allow anyone when allowFrom is empty")
	}
}

func TestBaseChannel_IsAllowed_WithFilter(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, []string{"user1", "user2"})

	if !ch.IsAllowed("user1") {
		t.Error("should allow user1")
	}
	if ch.IsAllowed("user3") {
		t.Error("should reject user3")
	}
}

func TestNewTelegramChannel_NoToken(t *testing.T) {
	b := bus.NewMessageBus(10)
	_, err := NewTelegramChannel(config.TelegramConfig{}, b)
	if err == nil {
		t.Error("expected error for empty token")
	}
}

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}
func (f *fakeBot) StopReceivingUpdates() {}
func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}
func (f *fakeBot) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "aquabot"}
}

func newTestChannel(t *testing.T) (*TelegramChannel, *fakeBot) {
	t.Helper()
	b := bus.NewMessageBus(10)
	fb := &fakeBot{}
	factory := func(_, _ string, _ *http.Client) (TelegramBot, error) {
		return fb, nil
	}
	ch, err := NewTelegramChannelWithFactory(config.TelegramConfig{Token: "fake-token"}, b, factory)
	if err != nil {
		t.Fatalf("NewTelegramChannelWithFactory: %v", err)
	}
	ch.SetBot(fb)
	return ch, fb
}

func TestTelegramChannel_SendText(t *testing.T) {
	ch, fb := newTestChannel(t)

	err := ch.Send(bus.OutboundMessage{ChatID: "42", Content: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fb.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fb.sent))
	}
	msg, ok := fb.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want MessageConfig", fb.sent[0])
	}
	if msg.Text != "hello" || msg.ChatID != 42 {
		t.Errorf("msg = %+v", msg)
	}
}

func TestTelegramChannel_SendLongTextChunks(t *testing.T) {
	ch, fb := newTestChannel(t)

	long := strings.Repeat("a", 4001)
	if err := ch.Send(bus.OutboundMessage{ChatID: "42", Content: long}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fb.sent) != 2 {
		t.Errorf("sent %d messages, want 2 chunks", len(fb.sent))
	}
}

func TestTelegramChannel_SendPhoto(t *testing.T) {
	ch, fb := newTestChannel(t)

	err := ch.Send(bus.OutboundMessage{
		ChatID:    "42",
		Photo:     []byte{0x89, 'P', 'N', 'G'},
		PhotoName: "water_chart.png",
		Caption:   "Water intake chart",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fb.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fb.sent))
	}
	photo, ok := fb.sent[0].(tgbotapi.PhotoConfig)
	if !ok {
		t.Fatalf("sent %T, want PhotoConfig", fb.sent[0])
	}
	if photo.Caption != "Water intake chart" {
		t.Errorf("caption = %q", photo.Caption)
	}
	fileBytes, ok := photo.File.(tgbotapi.FileBytes)
	if !ok {
		t.Fatalf("file is %T, want FileBytes", photo.File)
	}
	if fileBytes.Name != "water_chart.png" {
		t.Errorf("file name = %q", fileBytes.Name)
	}
}

func TestTelegramChannel_SendInvalidChatID(t *testing.T) {
	ch, _ := newTestChannel(t)
	if err := ch.Send(bus.OutboundMessage{ChatID: "not-a-number", Content: "x"}); err == nil {
		t.Error("expected error for invalid chat id")
	}
}

func TestChannelManager_TelegramDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Telegram.Enabled = false
	m, err := NewChannelManager(cfg, bus.NewMessageBus(10))
	if err != nil {
		t.Fatalf("NewChannelManager: %v", err)
	}
	if len(m.EnabledChannels()) != 0 {
		t.Errorf("channels = %v, want none", m.EnabledChannels())
	}
}
