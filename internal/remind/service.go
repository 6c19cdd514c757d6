// Package remind schedules the daily "log your water" nudges. The
// schedule is a cron expression from config; an empty expression
// disables the service entirely.
package remind

import (
	"context"
	"fmt"
	"log"
	"sync"

	rcron "github.com/robfig/cron/v3"
)

type Service struct {
	spec string

	// OnTick is invoked on every scheduled firing.
	OnTick func()

	mu     sync.Mutex
	cron   *rcron.Cron
	cancel context.CancelFunc
}

func NewService(spec string) *Service {
	return &Service{spec: spec}
}

func (s *Service) Start(ctx context.Context) error {
	if s.spec == "" {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	c := rcron.New()
	_, err := c.AddFunc(s.spec, func() {
		if s.OnTick != nil {
			s.OnTick()
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid reminder schedule %q: %w", s.spec, err)
	}

	s.mu.Lock()
	s.cron = c
	s.cancel = cancel
	s.mu.Unlock()

	c.Start()
	log.Printf("[remind] scheduled %q", s.spec)

	go func() {
		<-runCtx.Done()
		c.Stop()
	}()
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
