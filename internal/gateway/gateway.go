// Package gateway assembles the bot: config, bus, Telegram channel,
// statistics store with its sqlite journal, lookup clients, the
// dialogue sequencer, and the reminder scheduler.
package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquabotdev/aquabot/internal/bus"
	"github.com/aquabotdev/aquabot/internal/channel"
	"github.com/aquabotdev/aquabot/internal/config"
	"github.com/aquabotdev/aquabot/internal/dialog"
	"github.com/aquabotdev/aquabot/internal/lookup"
	"github.com/aquabotdev/aquabot/internal/remind"
	"github.com/aquabotdev/aquabot/internal/stats"
)

// Options for creating a Gateway
type Options struct {
	SignalChan chan os.Signal // for testing signal handling
}

type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	channels   *channel.ChannelManager
	store      *stats.Store
	journal    *stats.Journal
	seq        *dialog.Sequencer
	reminder   *remind.Service
	signalChan chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{cfg: cfg}

	g.bus = bus.NewMessageBus(config.DefaultBufSize)

	// Lookup clients
	weather := lookup.NewWeatherClient(cfg.Weather.APIKey)
	var translator lookup.Translator
	if cfg.Bot.Translate {
		translator = lookup.NewGoogleTranslator()
	}
	food := lookup.NewFoodClient(translator)
	exercise := lookup.NewExerciseClient(cfg.Exercise.APIKey, translator)

	// Statistics store, journaled to sqlite unless disabled
	g.store = stats.NewStore(weather)
	if dbPath := cfg.DBPath(); dbPath != "" {
		journal, err := stats.OpenJournal(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		if err := g.store.AttachJournal(journal); err != nil {
			_ = journal.Close()
			return nil, fmt.Errorf("replay journal: %w", err)
		}
		g.journal = journal
	}

	g.seq = dialog.NewSequencer(g.store, weather, food, exercise, dialog.Options{
		AdminID: cfg.Bot.AdminID,
	})

	// Reminders
	g.reminder = remind.NewService(cfg.Bot.ReminderCron)
	g.reminder.OnTick = func() {
		for _, p := range g.store.Profiles() {
			g.bus.Outbound <- bus.OutboundMessage{
				Channel: "telegram",
				ChatID:  p.ChatID,
				Content: "Time to log your water 💧 Use /log_water <ml>.",
			}
		}
	}

	chMgr, err := channel.NewChannelManager(cfg, g.bus)
	if err != nil {
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	if err := g.reminder.Start(ctx); err != nil {
		log.Printf("[gateway] reminder start warning: %v", err)
	}

	go g.processLoop(ctx)

	log.Printf("[gateway] running")

	// Use injected signal channel for testing, or create default
	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))

			replies := g.seq.Handle(ctx, msg.SenderID, msg.ChatID, msg.Username, msg.Content)
			for _, r := range replies {
				g.bus.Outbound <- bus.OutboundMessage{
					Channel:   msg.Channel,
					ChatID:    msg.ChatID,
					Content:   r.Text,
					Photo:     r.Photo,
					PhotoName: r.PhotoName,
					Caption:   r.Caption,
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) Shutdown() error {
	g.reminder.Stop()
	_ = g.channels.StopAll()
	if g.journal != nil {
		if err := g.journal.Close(); err != nil {
			log.Printf("[gateway] close journal warning: %v", err)
		}
	}
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
