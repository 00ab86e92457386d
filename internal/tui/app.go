package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"pullrefresh/internal/config"
	"pullrefresh/internal/content"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/model"
	"pullrefresh/internal/refresh"
)

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	dimStyle  = lipgloss.NewStyle().Faint(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	refStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)
)

// — spinner —————————————————————————————————————————————————————————————————

var spinnerFrames = []string{"|", "/", "-", "\\"}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// — messages ————————————————————————————————————————————————————————————————

// frameMsg drives the engine's animations.
type frameMsg struct {
	at time.Time
}

type pageLoadedMsg struct {
	page    model.Page
	refresh bool
	err     error
}

// — engine hooks ————————————————————————————————————————————————————————————

// hooks is both the engine's Listener and its Controller. Callbacks arrive
// inside Update, so they only record what was asked; Update turns the
// requests into commands afterwards.
type hooks struct {
	refreshEnabled bool
	loadEnabled    bool
	// exhausted is set once the source has no older commits.
	exhausted bool

	refreshRequested bool
	loadRequested    bool
}

func (h *hooks) OnRefresh()                { h.refreshRequested = true }
func (h *hooks) OnLoadMore()               { h.loadRequested = true }
func (h *hooks) IsPullRefreshEnable() bool { return h.refreshEnabled }
func (h *hooks) IsPullLoadEnable() bool    { return h.loadEnabled && !h.exhausted }

// pane keeps the viewport at a stable address for the edge adapter while
// Model itself is copied on every Update.
type pane struct {
	vp viewport.Model
}

// — model ———————————————————————————————————————————————————————————————————

// Options configures the host UI.
type Options struct {
	Config config.Config
	Source feed.Source
	Logger logr.Logger
	// Clock feeds the engine; nil means time.Now.
	Clock func() time.Time
	// Title is shown above the list.
	Title string
}

// Model is the bubbletea host for the refresh engine: a scrolling commit
// list with a pull-down header and a pull-up footer.
type Model struct {
	engine *refresh.Engine
	hooks  *hooks
	pane   *pane
	source feed.Source
	log    logr.Logger
	title  string

	rowHeight     float64
	frameInterval time.Duration
	pageSize      int
	autoLoad      bool

	commits []model.Commit
	width   int
	height  int
	loading bool
	err     error

	spinnerFrame int
	framing      bool
	pointerDown  bool
	lastY        int
}

// New builds the host and its engine.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	h := &hooks{
		refreshEnabled: cfg.Refresh.PullRefreshEnable,
		loadEnabled:    cfg.Refresh.PullLoadEnable,
	}
	p := &pane{vp: viewport.New(0, 0)}

	eo := cfg.Options()
	eo.Listener = h
	eo.Controller = h
	eo.Clock = opts.Clock
	eo.Logger = opts.Logger
	engine, err := refresh.New(eo, content.NewViewport(&p.vp))
	if err != nil {
		return Model{}, fmt.Errorf("build engine: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "History"
	}
	return Model{
		engine:        engine,
		hooks:         h,
		pane:          p,
		source:        opts.Source,
		log:           opts.Logger.WithName("tui"),
		title:         title,
		rowHeight:     cfg.UI.RowHeight,
		frameInterval: cfg.UI.FrameInterval,
		pageSize:      cfg.Feed.PageSize,
		autoLoad:      cfg.Refresh.AutoLoadMore,
		loading:       true,
	}, nil
}

// — commands ————————————————————————————————————————————————————————————————

func fetchPageCmd(src feed.Source, skip, n int, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := src.Page(ctx, skip, n)
		return pageLoadedMsg{page: page, refresh: refresh, err: err}
	}
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

// ensureFrame schedules the next animation frame unless one is pending or
// the engine is at rest.
func (m *Model) ensureFrame() tea.Cmd {
	if m.framing || !m.engine.NeedsFrame() {
		return nil
	}
	m.framing = true
	return frameCmd(m.frameInterval)
}

// drainHooks turns lifecycle callbacks recorded during the last engine call
// into fetch commands.
func (m *Model) drainHooks() tea.Cmd {
	var cmds []tea.Cmd
	if m.hooks.refreshRequested {
		m.hooks.refreshRequested = false
		m.log.V(1).Info("refresh requested")
		cmds = append(cmds, fetchPageCmd(m.source, 0, m.pageSize, true))
	}
	if m.hooks.loadRequested {
		m.hooks.loadRequested = false
		m.log.V(1).Info("load more requested", "skip", len(m.commits))
		cmds = append(cmds, fetchPageCmd(m.source, len(m.commits), m.pageSize, false))
	}
	cmds = append(cmds, m.ensureFrame())
	return tea.Batch(cmds...)
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchPageCmd(m.source, 0, m.pageSize, true), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pane.vp.Width = msg.Width
		m.pane.vp.Height = m.contentHeight()
		m.renderContent()
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, tickCmd()

	case frameMsg:
		m.framing = false
		m.engine.Advance(msg.at)
		cmd := m.drainHooks()
		return m, cmd

	case pageLoadedMsg:
		m.applyPage(msg)
		cmd := m.drainHooks()
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		cmd := m.drainHooks()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.engine.Stop()
			return m, tea.Quit
		case "l":
			m.hooks.loadEnabled = !m.hooks.loadEnabled
			return m, nil
		}
		m.scrollWith(msg)
		cmd := m.drainHooks()
		return m, cmd
	}
	return m, nil
}

// applyPage installs a loaded page and acknowledges the channel that asked
// for it. The first page arrives without a trigger; its acknowledgement is a
// no-op.
func (m *Model) applyPage(msg pageLoadedMsg) {
	m.loading = false
	if msg.err != nil {
		m.log.Error(msg.err, "page failed", "refresh", msg.refresh)
		m.err = msg.err
	} else {
		m.err = nil
		if msg.refresh {
			m.commits = msg.page.Commits
		} else {
			m.commits = append(m.commits, msg.page.Commits...)
		}
		m.hooks.exhausted = !msg.page.More
		m.renderContent()
		if msg.refresh {
			m.pane.vp.GotoTop()
		}
	}
	if msg.refresh {
		m.engine.FinishRefresh()
	} else {
		m.engine.FinishLoad()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	y := float64(msg.Y) * m.rowHeight
	x := float64(msg.X) * m.rowHeight

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		m.scrollWith(msg)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pointerDown = true
		m.lastY = msg.Y
		m.engine.PointerDown(x, y)

	case msg.Action == tea.MouseActionMotion && m.pointerDown:
		d, _ := m.engine.PointerMove(x, y)
		if d == refresh.PassThrough {
			// drag the content like a touch list
			before := m.pane.vp.YOffset
			m.pane.vp.SetYOffset(before + m.lastY - msg.Y)
			if m.pane.vp.YOffset != before {
				m.engine.ScrollChanged()
			}
		}
		m.lastY = msg.Y

	case msg.Action == tea.MouseActionRelease && m.pointerDown:
		m.pointerDown = false
		consumed := m.engine.PointerUp(x, y)
		m.log.V(2).Info("pointer up", "consumed", consumed)
	}
}

// scrollWith hands msg to the viewport and reports real movement to the
// engine.
func (m *Model) scrollWith(msg tea.Msg) {
	before := m.pane.vp.YOffset
	m.pane.vp, _ = m.pane.vp.Update(msg)
	if m.pane.vp.YOffset != before {
		m.engine.ScrollChanged()
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render("Loading history…")
	}

	title := titleStyle.Render(m.title) + " " + dimStyle.Render(fmt.Sprintf("%d commits", len(m.commits)))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.renderBody(), m.renderHelp())
}

// — layout helpers ——————————————————————————————————————————————————————————

// contentHeight leaves room for the title line and the two help lines.
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

func (m *Model) renderContent() {
	width := max(m.width, 1)
	var b strings.Builder
	for i, c := range m.commits {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderCommit(c, width))
	}
	m.pane.vp.SetContent(b.String())
}

func renderCommit(c model.Commit, width int) string {
	meta := fmt.Sprintf(" %s, %s", c.Author, c.When)
	line := c.Subject
	if c.Refs != "" {
		line = "(" + c.Refs + ") " + line
	}
	avail := width - 8 - runewidth.StringWidth(meta)
	if avail < 8 {
		avail = width - 8
		meta = ""
	}
	line = runewidth.Truncate(line, max(avail, 0), "…")
	if c.Refs != "" && strings.HasPrefix(line, "(") {
		if end := strings.Index(line, ")"); end > 0 {
			line = refStyle.Render(line[:end+1]) + line[end+1:]
		}
	}
	return dimStyle.Render(c.Short()) + " " + line + dimStyle.Render(meta)
}

// renderBody lays the header band, the translated content and the footer
// band into exactly contentHeight lines.
func (m Model) renderBody() string {
	h := m.contentHeight()
	head := m.engine.Snapshot(refresh.ChannelRefresh)
	foot := m.engine.Snapshot(refresh.ChannelLoad)
	headRows := min(m.rows(head.Offset), h)
	footRows := min(m.rows(foot.Offset), h)

	lines := strings.Split(m.pane.vp.View(), "\n")
	lines = fitLines(lines, h)

	var out []string
	switch {
	case headRows > 0:
		out = append(out, renderBand(head, m.width, headRows, m.spinnerFrame, headerTrim)...)
		out = append(out, lines[:h-headRows]...)
	case footRows > 0:
		out = append(out, lines[footRows:]...)
		out = append(out, renderBand(foot, m.width, footRows, m.spinnerFrame, footerTrim)...)
	default:
		out = lines
	}
	if m.err != nil {
		out[len(out)-1] = errStyle.Render(runewidth.Truncate("Error: "+m.err.Error(), m.width, "…"))
	}
	return strings.Join(out, "\n")
}

func (m Model) rows(offset float64) int {
	if m.rowHeight <= 0 {
		return 0
	}
	return int(offset/m.rowHeight + 0.5)
}

func fitLines(lines []string, n int) []string {
	if len(lines) >= n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderHelp() string {
	load := okStyle.Render("on")
	switch {
	case !m.hooks.loadEnabled:
		load = warnStyle.Render("off")
	case m.hooks.exhausted:
		load = dimStyle.Render("end")
	}
	auto := ""
	if m.autoLoad {
		auto = "  auto-load"
	}
	text := "drag ↓ at top refresh   drag ↑ at bottom load   ↑/↓ scroll   l load:" + load + auto + "   q quit"
	sep := dimStyle.Render(strings.Repeat("─", m.width))
	return sep + "\n" + helpStyle.Render(text)
}
