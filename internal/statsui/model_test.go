package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesync/internal/model"
)

type staticLog []model.TestResult

func (s staticLog) Load(context.Context) []model.TestResult { return s }

func sampleLog() staticLog {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return staticLog{
		{Speed: 48, Accuracy: 96, Mistakes: 1, Keystrokes: 240, Date: base.Add(2 * time.Minute)},
		{Speed: 44, Accuracy: 92, Mistakes: 2, Keystrokes: 230, Date: base.Add(time.Minute)},
		{Speed: 40, Accuracy: 100, Keystrokes: 210, Date: base},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(sampleLog(), Options{Window: 2})
	m.SetSize(100, 40)
	out := m.View()
	for _, want := range []string{"Overview", "Results", "Tests", "Best WPM", "48.0", "Speed (WPM)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in view", want)
		}
	}
}

func TestResultsTabListsNewestFirst(t *testing.T) {
	m := NewModel(sampleLog(), Options{Window: 1})
	m.SetSize(100, 20)
	m.Update(keyRunes("l"))
	if m.activeTab != tabResults {
		t.Fatalf("expected results tab, got %d", m.activeTab)
	}
	out := m.View()
	first := strings.Index(out, "48.00")
	last := strings.Index(out, "40.00")
	if first < 0 || last < 0 || first > last {
		t.Fatalf("expected newest result before oldest:\n%s", out)
	}
}

func TestEmptyLog(t *testing.T) {
	m := NewModel(staticLog(nil), Options{})
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "No results found.") {
		t.Fatalf("expected empty message")
	}
}

func TestQuitKeyDependsOnEmbedding(t *testing.T) {
	standalone := NewModel(sampleLog(), Options{})
	_, cmd := standalone.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}

	embedded := NewModel(sampleLog(), Options{Embedded: true})
	_, cmd = embedded.Update(keyRunes("q"))
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatalf("embedded browser must not quit")
		}
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := NewModel(sampleLog(), Options{Window: 1})
	m.Update(keyRunes("="))
	if m.opts.Window != 5 {
		t.Fatalf("expected window 5, got %d", m.opts.Window)
	}
	m.Update(keyRunes("-"))
	if m.opts.Window != 1 {
		t.Fatalf("expected window 1, got %d", m.opts.Window)
	}
}

func TestApplyFilter(t *testing.T) {
	m := NewModel(sampleLog(), Options{Window: 1})
	m.filterInputs[0].SetValue("2")
	m.filterInputs[1].SetValue("3")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	m.Refresh()
	if len(m.report.Results) != 2 || m.report.Window != 3 {
		t.Fatalf("unexpected report: %d results, window %d", len(m.report.Results), m.report.Window)
	}

	m.filterInputs[1].SetValue("0")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for window 0")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
