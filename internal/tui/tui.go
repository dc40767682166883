package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/classify"
	"github.com/Zuo-Peng/droptrack/internal/poll"
	"github.com/Zuo-Peng/droptrack/internal/render"
	"github.com/Zuo-Peng/droptrack/internal/stats"
)

const (
	flashDuration = 3 * time.Second
	debugEntries  = 200
)

// message types

type pollTickMsg struct{}

type cycleMsg struct {
	result poll.CycleResult
	state  *stats.State
	err    error
}

type resetDoneMsg struct {
	state *stats.State
	err   error
}

type flashMsg struct {
	text string
}

type clearFlashMsg struct {
	text string
}

// Options configures the watch view.
type Options struct {
	Interval time.Duration
	Foods    []string // food image names for the feed lane

	// WriteClipboard defaults to clipboard.WriteAll.
	WriteClipboard func(string) error
}

// model

type model struct {
	ctx      context.Context
	runner   *poll.Runner
	opts     Options
	drops    []catalog.Drop
	state    *stats.State
	last     poll.CycleResult
	cycles   int
	polling  bool
	cursor   int
	expanded map[string]bool

	listOffset int
	lane       feedLane
	showDebug  bool
	debugView  viewport.Model
	flash      string

	width    int
	height   int
	ready    bool
	quitting bool
	now      func() time.Time
}

func initialModel(ctx context.Context, r *poll.Runner, opts Options) model {
	if opts.Interval <= 0 {
		opts.Interval = poll.DefaultInterval
	}
	if opts.WriteClipboard == nil {
		opts.WriteClipboard = clipboard.WriteAll
	}
	return model{
		ctx:       ctx,
		runner:    r,
		opts:      opts,
		drops:     r.Session.Catalog().Drops(),
		state:     r.Session.State(),
		expanded:  map[string]bool{},
		lane:      feedLane{foods: opts.Foods},
		debugView: newViewport(0, 0),
		now:       time.Now,
	}
}

// Run starts the watch view and blocks until it exits. Polling happens
// inside the program loop, one cycle at a time.
func Run(ctx context.Context, r *poll.Runner, opts Options) error {
	m := initialModel(ctx, r, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init runs the first poll right away.
func (m model) Init() tea.Cmd {
	return func() tea.Msg { return pollTickMsg{} }
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.debugView = newViewport(m.sideWidth(), m.panelHeight()-2)
		m.refreshDebug()
		return m, nil

	case pollTickMsg:
		if m.polling {
			return m, nil
		}
		m.polling = true
		return m, m.pollCmd()

	case cycleMsg:
		m.polling = false
		m.cycles++
		m.last = msg.result
		m.state = msg.state
		for _, ev := range msg.result.Events {
			if ev.Kind == classify.KindFeed {
				cmds = append(cmds, m.lane.spawn(m.laneWidth()))
			}
		}
		m.refreshDebug()
		if msg.err == nil {
			cmds = append(cmds, tea.Tick(m.opts.Interval, func(time.Time) tea.Msg { return pollTickMsg{} }))
		}
		return m, tea.Batch(cmds...)

	case animTickMsg:
		return m, m.lane.step()

	case resetDoneMsg:
		m.state = msg.state
		m.expanded = map[string]bool{}
		m.lane.treats = nil
		if msg.err != nil {
			return m, m.setFlash("reset, but saving failed: " + msg.err.Error())
		}
		return m, m.setFlash("counters reset")

	case flashMsg:
		return m, m.setFlash(msg.text)

	case clearFlashMsg:
		if msg.text == m.flash {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.drops)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
			}
			return m, nil

		case key.Matches(msg, keys.Toggle):
			m.toggle(m.cursor)
			return m, nil

		case key.Matches(msg, keys.Reset):
			return m, m.resetCmd()

		case key.Matches(msg, keys.Copy):
			return m, m.copyCmd()

		case key.Matches(msg, keys.Debug):
			m.showDebug = !m.showDebug
			m.refreshDebug()
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.debugView.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.debugView.LineDown(m.panelHeight() / 2)
			return m, nil
		}
		return m, nil

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		region, item := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			if m.listOffset < len(m.tableRows())-1 {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if item >= 0 {
				m.cursor = item
				m.toggle(item)
			}
			return m, nil

		case region == regionSide && m.showDebug:
			var vpCmd tea.Cmd
			m.debugView, vpCmd = m.debugView.Update(msg)
			return m, vpCmd
		}
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	sideW := m.sideWidth()
	panelH := m.panelHeight()

	header := m.header()

	listPanel := styleActiveBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	var side string
	if m.showDebug {
		m.debugView.Width = sideW
		m.debugView.Height = panelH - 1
		side = styleTitle.Render("debug log") + "\n" + m.debugView.View()
	} else {
		side = m.activity(sideW, panelH)
	}
	sidePanel := stylePanelBorder.
		Width(sideW).
		Height(panelH).
		Render(side)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.statusBar())
}

// header renders the counters above the panels.
func (m model) header() string {
	lines := render.Header(m.state, m.now())
	out := styleCounter.Render(lines[0]) + "\n" + styleCounter.Render(lines[1])
	if m.state.FeedCount > stats.FeedThreshold {
		out += "  " + styleWasted.Render(fmt.Sprintf("over-fed by %d", m.state.FeedCount-stats.FeedThreshold))
	}
	return out
}

// activity renders the feed lane and the most recent new lines.
func (m model) activity(width, height int) string {
	lines := []string{
		styleTitle.Render("feed " + m.state.FeedProgress()),
		m.lane.view(width),
		"",
		styleTitle.Render("recent lines"),
	}
	recent := m.last.New
	if m.last.Baseline {
		lines = append(lines, styleRowDetail.Render(fmt.Sprintf("baseline: %d lines on screen", len(m.last.Lines))))
	}
	room := height - len(lines)
	if room < 0 {
		room = 0
	}
	if len(recent) > room {
		recent = recent[len(recent)-room:]
	}
	for _, l := range recent {
		lines = append(lines, styleRowNormal.Render(truncate(l, width)))
	}
	return strings.Join(lines, "\n")
}

func (m *model) toggle(item int) {
	if item < 0 || item >= len(m.drops) {
		return
	}
	def := m.drops[item]
	if !m.state.Expandable(def) {
		return
	}
	m.expanded[def.ID] = !m.expanded[def.ID]
}

func (m *model) refreshDebug() {
	if !m.showDebug {
		return
	}
	entries := m.runner.Session.Logger().Ring().Recent(debugEntries)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Format()
	}
	m.debugView.SetContent(strings.Join(lines, "\n"))
	m.debugView.GotoBottom()
}

func (m *model) setFlash(text string) tea.Cmd {
	m.flash = text
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return clearFlashMsg{text: text} })
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 50
	}
	// 60% for the table, minus border padding
	w := m.width*60/100 - 4
	if w < 30 {
		w = 30
	}
	return w
}

func (m model) sideWidth() int {
	if m.width <= 0 {
		return 30
	}
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) laneWidth() int {
	return m.sideWidth()
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract header (2) + status bar (1) + borders (4)
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionSide
)

// hitTest maps terminal coordinates to a panel region and catalog index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 3 // header (2) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		rows := m.tableRows()
		idx := m.listOffset + relY
		if idx >= len(rows) {
			return regionList, -1
		}
		return regionList, rows[idx].item
	}

	if x > listBoxRight+1 {
		return regionSide, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	if m.flash != "" {
		return styleFlash.Render(m.flash)
	}
	parts := []string{
		fmt.Sprintf("%d polls", m.cycles),
		"up/dn navigate",
		"enter expand",
		"r reset",
		"c copy",
		"d debug",
		"q quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// pollCmd runs one cycle off the update loop. Only one is ever in flight.
func (m model) pollCmd() tea.Cmd {
	ctx, r := m.ctx, m.runner
	return func() tea.Msg {
		res, err := r.Poll(ctx)
		return cycleMsg{result: res, state: r.Session.State(), err: err}
	}
}

func (m model) resetCmd() tea.Cmd {
	ctx, r := m.ctx, m.runner
	return func() tea.Msg {
		err := r.Reset(ctx)
		return resetDoneMsg{state: r.Session.State(), err: err}
	}
}

func (m model) copyCmd() tea.Cmd {
	text := render.Summary(m.state, m.runner.Session.Catalog())
	write := m.opts.WriteClipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return flashMsg{text: "clipboard unavailable: " + err.Error()}
		}
		return flashMsg{text: "summary copied to clipboard"}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	return viewport.New(width, height)
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
