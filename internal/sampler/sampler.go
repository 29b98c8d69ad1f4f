// Package sampler refreshes a live words-per-minute estimate on a timer.
package sampler

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesync/internal/stats"
)

// DefaultInterval is the refresh period used when none is given.
const DefaultInterval = 500 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is sent when a sampler tick fires.
type TickMsg struct {
	ID  int
	tag int
}

// Sampler computes an advisory speed while a test runs. Each Start or
// Stop bumps the tag, so a tick scheduled before it is dropped and at
// most one tick chain is live.
type Sampler struct {
	id       int
	tag      int
	interval time.Duration
	now      func() time.Time

	running   bool
	startedAt time.Time
	speed     float64
}

// New returns a stopped sampler. A nil clock uses time.Now.
func New(interval time.Duration, now func() time.Time) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Sampler{id: nextID(), interval: interval, now: now}
}

// ID returns the sampler's unique id.
func (s *Sampler) ID() int {
	return s.id
}

// Running reports whether ticks are being processed.
func (s *Sampler) Running() bool {
	return s.running
}

// Speed returns the latest estimate.
func (s *Sampler) Speed() float64 {
	return s.speed
}

// Start begins sampling against startedAt and returns the first tick.
// Starting a running sampler restarts its tick chain.
func (s *Sampler) Start(startedAt time.Time) tea.Cmd {
	s.tag++
	s.running = true
	s.startedAt = startedAt
	s.speed = 0
	return s.tick()
}

// Stop cancels the tick chain and discards the estimate.
func (s *Sampler) Stop() {
	s.tag++
	s.running = false
	s.startedAt = time.Time{}
	s.speed = 0
}

// Update recomputes the estimate on a matching tick and schedules the next.
func (s *Sampler) Update(msg tea.Msg, wordsCompleted int) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != s.id || tick.tag != s.tag || !s.running {
		return nil
	}
	s.Sample(wordsCompleted)
	return s.tick()
}

// Sample recomputes the estimate immediately.
func (s *Sampler) Sample(wordsCompleted int) {
	if !s.running {
		return
	}
	elapsed := s.now().Sub(s.startedAt).Minutes()
	if elapsed <= 0 {
		return
	}
	s.speed = stats.Speed(wordsCompleted, elapsed)
}

func (s *Sampler) tick() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}
