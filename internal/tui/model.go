// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesync/internal/corpus"
	"github.com/verte-zerg/typesync/internal/history"
	"github.com/verte-zerg/typesync/internal/model"
	"github.com/verte-zerg/typesync/internal/sampler"
	"github.com/verte-zerg/typesync/internal/session"
	"github.com/verte-zerg/typesync/internal/stats"
	"github.com/verte-zerg/typesync/internal/statsui"
)

const (
	chartHeight     = 6
	previousResults = 3
	browserWindow   = 5
)

// SyncStatusMsg tells the model the history adapter changed its status.
// The model reads the current status from the adapter, since these
// messages may arrive out of order.
type SyncStatusMsg struct{}

// StatusRelay forwards history status changes to a running program.
type StatusRelay struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach sets the program that receives status messages.
func (r *StatusRelay) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Notify is a history.Config.OnStatus callback. It never blocks: the
// adapter may report from inside Update, where a direct Send would wait
// on the loop that is running it.
func (r *StatusRelay) Notify(model.SyncStatus) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p == nil {
		return
	}
	go p.Send(SyncStatusMsg{})
}

type historyLoadedMsg struct {
	results []model.TestResult
}

type appendDoneMsg struct {
	results []model.TestResult
	err     error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	history *history.Adapter
	picker  *corpus.Picker
	now     func() time.Time

	session *session.Session
	sampler *sampler.Sampler
	browser *statsui.Model

	width  int
	height int

	results     []model.TestResult
	last        *model.TestResult
	status      model.SyncStatus
	showHistory bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B9BD5")).Bold(true)
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle      = lipgloss.NewStyle().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	latestStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FB8E8"))
	panelStyle       = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))

	statusStyles = map[model.SyncStatus]lipgloss.Style{
		model.SyncIdle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		model.SyncSyncing: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		model.SyncSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		model.SyncError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// NewModel constructs a typing TUI model. A nil clock uses time.Now.
func NewModel(cfg model.Config, adapter *history.Adapter, picker *corpus.Picker, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	m := &Model{
		config:  cfg,
		history: adapter,
		picker:  picker,
		now:     now,
		sampler: sampler.New(cfg.SampleInterval, now),
	}
	m.session = session.New(picker.Pick(), now)
	m.browser = statsui.NewModel(cachedLog{adapter}, statsui.Options{Window: browserWindow, Embedded: true})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadHistoryCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browser.SetSize(msg.Width, m.browserHeight())
		return m, nil
	case sampler.TickMsg:
		return m, m.sampler.Update(msg, m.session.Index())
	case historyLoadedMsg:
		m.results = msg.results
		m.browser.Refresh()
		return m, nil
	case SyncStatusMsg:
		m.status = m.history.Status()
		m.results = m.history.History()
		m.browser.Refresh()
		return m, nil
	case appendDoneMsg:
		if msg.err != nil {
			logErrf("failed to sync result: %v\n", msg.err)
		}
		if msg.results != nil {
			m.results = msg.results
		}
		m.browser.Refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showHistory && m.browser.Filtering() {
		_, cmd := m.browser.Update(msg)
		return m, cmd
	}
	switch msg.Type {
	case tea.KeyCtrlR, tea.KeyEsc:
		m.reset()
		return m, nil
	case tea.KeyTab:
		m.toggleHistory()
		return m, nil
	}
	if m.showHistory {
		_, cmd := m.browser.Update(msg)
		return m, cmd
	}
	switch msg.Type {
	case tea.KeySpace, tea.KeyEnter:
		return m, m.boundary()
	case tea.KeyBackspace, tea.KeyDelete:
		return m, m.edit(dropLastRune(m.session.Input()))
	case tea.KeyRunes:
		return m, m.edit(m.session.Input() + string(msg.Runes))
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	footer := m.renderFooter()
	if m.showHistory {
		return m.browser.View() + "\n" + footer
	}
	var body string
	if m.session.State() == session.Finished {
		body = m.renderResults()
	} else {
		body = m.renderPractice()
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	content := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

// edit replaces the input buffer and starts live sampling on the first keystroke.
func (m *Model) edit(input string) tea.Cmd {
	wasRunning := m.session.State() == session.Running
	m.session.Type(input)
	if wasRunning || m.session.State() != session.Running {
		return nil
	}
	startedAt, _ := m.session.StartedAt()
	return m.sampler.Start(startedAt)
}

// boundary commits the current word; completing the text persists the result.
func (m *Model) boundary() tea.Cmd {
	result, done := m.session.Commit()
	if !done {
		m.sampler.Sample(m.session.Index())
		return nil
	}
	m.sampler.Stop()
	m.last = &result
	return m.appendCmd(result)
}

func (m *Model) reset() {
	m.session.Restart(m.picker.Pick())
	m.sampler.Stop()
	m.history.ResetStatus()
	m.status = m.history.Status()
	m.last = nil
	m.showHistory = false
}

func (m *Model) toggleHistory() {
	m.showHistory = !m.showHistory
	if m.showHistory {
		m.browser.Refresh()
	}
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	adapter := m.history
	return func() tea.Msg {
		return historyLoadedMsg{results: adapter.Load(context.Background())}
	}
}

func (m *Model) appendCmd(result model.TestResult) tea.Cmd {
	adapter := m.history
	return func() tea.Msg {
		results, err := adapter.Append(context.Background(), result)
		return appendDoneMsg{results: results, err: err}
	}
}

func (m *Model) browserHeight() int {
	if m.height <= 1 {
		return m.height
	}
	return m.height - 1
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderPractice() string {
	width := m.contentWidth()
	words := m.session.Text().Words()
	lines := buildStyledWords(words, m.session.Index(), m.session.IsMistake)
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, wrapStyledWords(line, width))
	}
	input := m.session.Input()
	if width > 2 {
		input = truncateInput(input, width-3)
	}
	parts := []string{
		promptStyle.Render("Type the following:"),
		strings.Join(rendered, "\n"),
		"",
		promptStyle.Render("> ") + inputStyle.Render(input) + cursorStyle.Render(" "),
		"",
		fmt.Sprintf("Words: %d/%d  Mistakes: %d  Speed: %.2f WPM",
			m.session.Index(), len(words), len(m.session.Mistakes()), m.sampler.Speed()),
	}
	block := strings.Join(parts, "\n")
	if width > 0 {
		block = lipgloss.NewStyle().Width(width).Render(block)
	}
	return block
}

func (m *Model) renderResults() string {
	parts := []string{}
	if m.last != nil {
		parts = append(parts, panelStyle.Render(strings.Join([]string{
			latestStyle.Render("Latest Result"),
			fmt.Sprintf("Speed: %.2f WPM", m.last.Speed),
			fmt.Sprintf("Accuracy: %.2f%%", m.last.Accuracy),
			fmt.Sprintf("Mistakes: %d", m.last.Mistakes),
			fmt.Sprintf("Keystrokes: %d", m.last.Keystrokes),
		}, "\n")))
	}
	if chart := m.renderSpeedChart(); chart != "" {
		parts = append(parts, chart)
	}
	if prev := m.renderPrevious(); prev != "" {
		parts = append(parts, prev)
	}
	parts = append(parts, promptStyle.Render("ctrl+r: new test  tab: history"))
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderSpeedChart() string {
	if len(m.results) == 0 {
		return ""
	}
	speeds, _ := stats.Chronological(m.results)
	width := m.contentWidth()
	if width == 0 {
		width = 60
	}
	var buf bytes.Buffer
	err := stats.PlotSeries(&buf, stats.Series{Name: "Speed", Unit: "WPM", Values: speeds}, stats.PlotOptions{
		Width:     width,
		Height:    chartHeight,
		FloorZero: true,
	})
	if err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderPrevious() string {
	if len(m.results) <= 1 {
		return ""
	}
	lines := []string{"Previous Results"}
	for i, r := range m.results[1:] {
		if i == previousResults {
			break
		}
		lines = append(lines, fmt.Sprintf("%s  %.2f WPM  %.2f%%  %d mistakes",
			r.Date.Local().Format(stats.DateLayout), r.Speed, r.Accuracy, r.Mistakes))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	status := statusStyles[m.status].Render(m.status.String())
	help := footerStyle.Render("ctrl+r/esc reset  tab history  ctrl+c quit")
	return status + footerStyle.Render("  ·  ") + help
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

// cachedLog feeds the history browser from the adapter's cache so
// rendering never waits on the store.
type cachedLog struct {
	adapter *history.Adapter
}

func (c cachedLog) Load(context.Context) []model.TestResult {
	return c.adapter.History()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
