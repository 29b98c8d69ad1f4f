// Package session tracks progress through a single typing test.
package session

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typesync/internal/corpus"
	"github.com/verte-zerg/typesync/internal/model"
	"github.com/verte-zerg/typesync/internal/stats"
)

// State is the phase of a session.
type State int

const (
	Idle State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// Session is the word-by-word typing state machine. It is not safe for
// concurrent use; the UI loop owns it.
type Session struct {
	text corpus.Text
	now  func() time.Time

	index     int
	input     string
	mistakes  map[int]struct{}
	startedAt time.Time
	started   bool
	finished  bool
}

// New returns an idle session over text. A nil clock uses time.Now.
func New(text corpus.Text, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{text: text, now: now}
	s.Reset()
	return s
}

// Reset returns the session to its idle values, dropping any progress.
func (s *Session) Reset() {
	s.index = 0
	s.input = ""
	s.mistakes = map[int]struct{}{}
	s.startedAt = time.Time{}
	s.started = false
	s.finished = false
}

// Restart swaps in a new text and resets.
func (s *Session) Restart(text corpus.Text) {
	s.text = text
	s.Reset()
}

// State reports the current phase.
func (s *Session) State() State {
	switch {
	case s.finished:
		return Finished
	case s.started:
		return Running
	default:
		return Idle
	}
}

// Type replaces the input buffer. The first non-empty buffer starts the clock.
func (s *Session) Type(input string) {
	if s.finished {
		return
	}
	s.input = input
	if !s.started && input != "" {
		s.started = true
		s.startedAt = s.now()
	}
}

// Commit checks the buffer against the current word and advances. It
// returns the final result when this commit finishes the text. Commits
// outside Running are ignored.
func (s *Session) Commit() (model.TestResult, bool) {
	if s.State() != Running {
		return model.TestResult{}, false
	}
	typed := strings.TrimSpace(s.input)
	if typed != s.text.Word(s.index) {
		s.mistakes[s.index] = struct{}{}
	}
	s.index++
	s.input = ""
	if s.index < s.text.Len() {
		return model.TestResult{}, false
	}
	s.finished = true
	return s.finalize()
}

func (s *Session) finalize() (model.TestResult, bool) {
	if !s.started {
		return model.TestResult{}, false
	}
	endedAt := s.now()
	speed := 0.0
	if elapsed := endedAt.Sub(s.startedAt).Minutes(); elapsed > 0 {
		speed = stats.Speed(s.index, elapsed)
	}
	completed := s.text.Words()[:s.index]
	return model.TestResult{
		Speed:      speed,
		Mistakes:   len(s.mistakes),
		Accuracy:   stats.Accuracy(len(s.mistakes), s.index),
		Keystrokes: utf8.RuneCountInString(strings.Join(completed, " ")),
		Date:       endedAt.UTC(),
	}, true
}

// Text returns the sample text.
func (s *Session) Text() corpus.Text {
	return s.text
}

// Index returns the index of the word being typed.
func (s *Session) Index() int {
	return s.index
}

// Input returns the current buffer.
func (s *Session) Input() string {
	return s.input
}

// StartedAt returns the start instant and whether the clock is running.
func (s *Session) StartedAt() (time.Time, bool) {
	return s.startedAt, s.started
}

// IsMistake reports whether word i was committed incorrectly.
func (s *Session) IsMistake(i int) bool {
	_, ok := s.mistakes[i]
	return ok
}

// Mistakes returns the mistaken word indices in ascending order.
func (s *Session) Mistakes() []int {
	out := make([]int, 0, len(s.mistakes))
	for i := range s.mistakes {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
