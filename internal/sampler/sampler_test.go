package sampler

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestSamplerComputesSpeedOnTick(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := New(time.Millisecond, clock.now)
	start := clock.t
	if cmd := s.Start(start); cmd == nil {
		t.Fatalf("expected a tick command")
	}
	clock.t = start.Add(30 * time.Second)

	next := s.Update(TickMsg{ID: s.ID(), tag: s.tag}, 10)
	if next == nil {
		t.Fatalf("expected the next tick to be scheduled")
	}
	if got := s.Speed(); got != 20 {
		t.Fatalf("expected 20 WPM, got %f", got)
	}
}

func TestSamplerIgnoresStaleTicks(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := New(time.Millisecond, clock.now)
	s.Start(clock.t)
	stale := TickMsg{ID: s.ID(), tag: s.tag}

	s.Stop()
	s.Start(clock.t)
	clock.t = clock.t.Add(time.Minute)
	if cmd := s.Update(stale, 5); cmd != nil {
		t.Fatalf("expected stale tick to be dropped")
	}
	if s.Speed() != 0 {
		t.Fatalf("expected stale tick not to sample")
	}
}

func TestSamplerIgnoresOtherSamplers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	a := New(time.Millisecond, clock.now)
	b := New(time.Millisecond, clock.now)
	a.Start(clock.t)
	b.Start(clock.t)
	clock.t = clock.t.Add(time.Minute)
	if cmd := a.Update(TickMsg{ID: b.ID(), tag: b.tag}, 5); cmd != nil {
		t.Fatalf("expected tick for another sampler to be ignored")
	}
}

func TestSamplerStopDiscardsEstimate(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := New(time.Millisecond, clock.now)
	s.Start(clock.t)
	clock.t = clock.t.Add(time.Minute)
	s.Sample(40)
	if s.Speed() != 40 {
		t.Fatalf("expected 40 WPM, got %f", s.Speed())
	}
	tag := s.tag
	s.Stop()
	if s.Running() || s.Speed() != 0 {
		t.Fatalf("expected stopped sampler with zero speed")
	}
	if cmd := s.Update(TickMsg{ID: s.ID(), tag: tag}, 40); cmd != nil {
		t.Fatalf("expected no tick after stop")
	}
}

func TestSamplerSkipsNonPositiveElapsed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := New(time.Millisecond, clock.now)
	s.Start(clock.t)
	s.Sample(3)
	if s.Speed() != 0 {
		t.Fatalf("expected zero speed at zero elapsed, got %f", s.Speed())
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(0, nil)
	if s.interval != DefaultInterval {
		t.Fatalf("expected default interval, got %s", s.interval)
	}
}
