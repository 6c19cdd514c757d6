package gateway

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aquabotdev/aquabot/internal/bus"
	"github.com/aquabotdev/aquabot/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Telegram.Enabled = false // no network in tests
	cfg.Bot.Translate = false
	return cfg
}

func TestNewWithOptions_NoChannels(t *testing.T) {
	g, err := NewWithOptions(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if g.store == nil || g.seq == nil {
		t.Fatal("gateway not fully wired")
	}
	if g.journal == nil {
		t.Error("journal should open by default")
	}
	if err := g.Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNew_JournalDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bot.DBPath = "off"
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.journal != nil {
		t.Error("journal should be disabled")
	}
	_ = g.Shutdown()
}

func TestRun_SignalShutdown(t *testing.T) {
	cfg := testConfig(t)
	sigCh := make(chan os.Signal, 1)
	g, err := NewWithOptions(cfg, Options{SignalChan: sigCh})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- g.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	sigCh <- os.Interrupt

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not shut down after signal")
	}
}

func TestProcessLoop_RoutesReplies(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bot.DBPath = "off"
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Shutdown()

	got := make(chan string, 1)
	g.bus.SubscribeOutbound("test", func(msg bus.OutboundMessage) {
		got <- msg.Content
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.bus.DispatchOutbound(ctx)
	go g.processLoop(ctx)

	g.bus.Inbound <- bus.InboundMessage{
		Channel:  "test",
		SenderID: "u1",
		ChatID:   "c1",
		Content:  "/start",
	}

	select {
	case content := <-got:
		if content == "" {
			t.Error("empty reply")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply routed")
	}
}
