// Package alarm implements the named one-shot trigger scheduler the timer
// manager schedules countdowns on. Names are the only identity: creating an
// alarm under an existing name replaces it.
package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

// Handler receives the name of a fired alarm. It runs on the alarm's own
// goroutine, so implementations must be safe for concurrent calls.
type Handler func(ctx context.Context, name string)

// scheduled pairs a timer with the generation it was created under. The
// generation lets an expiry goroutine prove it still owns the name: a reset
// replaces the entry under the same name, and the old timer's expiry may
// already be in flight when it does.
type scheduled struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler is an in-process browser.Scheduler built on time.AfterFunc.
type Scheduler struct {
	logger  logger.Logger
	mu      sync.Mutex
	timers  map[string]scheduled
	lastGen uint64
	handler Handler
	closed  bool
}

// New creates a scheduler. The fired-alarm handler is attached later with
// SetHandler, after the event router exists.
func New(log logger.Logger) *Scheduler {
	return &Scheduler{
		logger: log,
		timers: make(map[string]scheduled),
	}
}

// SetHandler installs the callback invoked for every fired alarm. Alarms
// firing before a handler is installed are dropped with a warning.
func (s *Scheduler) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Create schedules a one-shot alarm, replacing any alarm with the same name.
func (s *Scheduler) Create(ctx context.Context, name string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if prev, ok := s.timers[name]; ok {
		prev.timer.Stop()
	}
	s.lastGen++
	gen := s.lastGen
	s.timers[name] = scheduled{
		timer: time.AfterFunc(delay, func() { s.fire(name, gen) }),
		gen:   gen,
	}
	s.logger.Debug("alarm scheduled",
		logger.String("name", name),
		logger.Duration("delay", delay))
	return nil
}

// Clear cancels a scheduled alarm. No-op when none exists.
func (s *Scheduler) Clear(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.timers[name]; ok {
		p.timer.Stop()
		delete(s.timers, name)
		s.logger.Debug("alarm cleared", logger.String("name", name))
	}
	return nil
}

// Names returns the names of all currently scheduled alarms.
func (s *Scheduler) Names(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.timers))
	for name := range s.timers {
		names = append(names, name)
	}
	return names, nil
}

// Stop cancels every outstanding alarm. The scheduler accepts no new work
// afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for name, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, name)
	}
}

func (s *Scheduler) fire(name string, gen uint64) {
	s.mu.Lock()
	p, live := s.timers[name]
	if live && p.gen != gen {
		// This expiry raced a reset: the entry under the name is already a
		// newer alarm, which now owns the countdown. Back out untouched.
		s.mu.Unlock()
		return
	}
	if live {
		delete(s.timers, name)
	}
	h := s.handler
	closed := s.closed
	s.mu.Unlock()

	if !live || closed {
		return
	}
	if h == nil {
		s.logger.Warn("alarm fired with no handler installed",
			logger.String("name", name))
		return
	}
	h(context.Background(), name)
}
