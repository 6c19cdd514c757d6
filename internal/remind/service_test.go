package remind

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestService_EmptySpecIsNoop(t *testing.T) {
	s := NewService("")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestService_InvalidSpec(t *testing.T) {
	s := NewService("not a cron spec")
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestService_Ticks(t *testing.T) {
	s := NewService("* * * * *")
	var ticks atomic.Int32
	s.OnTick = func() { ticks.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	// A per-minute schedule should not fire within a few milliseconds;
	// this only verifies start/stop do not race or panic.
	time.Sleep(10 * time.Millisecond)
	_ = ticks.Load()
}

func TestService_StopTwice(t *testing.T) {
	s := NewService("* * * * *")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	s.Stop()
}
