package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pullrefresh/internal/config"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/model"
	"pullrefresh/internal/refresh"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type fixture struct {
	m     Model
	src   *feed.Demo
	clock *testClock
}

func newFixture(t *testing.T, total, pageSize int, tweak func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Feed.Source = config.SourceDemo
	cfg.Feed.PageSize = pageSize
	if tweak != nil {
		tweak(&cfg)
	}
	f := &fixture{
		src:   &feed.Demo{Total: total},
		clock: &testClock{now: time.Unix(0, 0)},
	}
	m, err := New(Options{Config: cfg, Source: f.src, Clock: f.clock.Now})
	require.NoError(t, err)
	f.m = m

	f.send(t, tea.WindowSizeMsg{Width: 60, Height: 20})
	f.send(t, f.fetch(t, 0, true))
	require.False(t, f.m.loading)
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	f.m = m
	return cmd
}

func (f *fixture) fetch(t *testing.T, skip int, refresh bool) tea.Msg {
	t.Helper()
	return fetchPageCmd(f.src, skip, f.m.pageSize, refresh)()
}

func (f *fixture) frame(t *testing.T, after time.Duration) tea.Cmd {
	t.Helper()
	f.clock.now = f.clock.now.Add(after)
	return f.send(t, frameMsg{at: f.clock.now})
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestInitialPageFillsList(t *testing.T) {
	f := newFixture(t, 12, 5, nil)
	assert.Len(t, f.m.commits, 5)
	assert.True(t, f.m.hooks.IsPullLoadEnable())
	view := f.m.View()
	assert.Contains(t, view, "Demo change #12")
	assert.Contains(t, view, "5 commits")
}

func TestPullDownRefreshLifecycle(t *testing.T) {
	f := newFixture(t, 12, 5, nil)

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 2))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 13))
	snap := f.m.engine.Snapshot(refresh.ChannelRefresh)
	require.Equal(t, refresh.PhaseDragging, snap.Phase)
	assert.Equal(t, 160.0, snap.Offset)
	assert.Contains(t, f.m.View(), "Release to refresh")

	cmd := f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 13))
	require.NotNil(t, cmd, "release starts the frame loop")
	assert.True(t, f.m.framing)
	assert.Equal(t, refresh.PhaseTriggering, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)

	cmd = f.frame(t, 400*time.Millisecond)
	require.NotNil(t, cmd, "settling asks for a page")
	assert.False(t, f.m.hooks.refreshRequested)
	snap = f.m.engine.Snapshot(refresh.ChannelRefresh)
	assert.Equal(t, refresh.PhaseSettled, snap.Phase)
	assert.Equal(t, 80.0, snap.Offset)
	assert.Contains(t, f.m.View(), "Refreshing...")

	f.send(t, f.fetch(t, 0, true))
	assert.Equal(t, refresh.PhaseResetting, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)
	f.frame(t, 400*time.Millisecond)
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)
	assert.False(t, f.m.engine.NeedsFrame())
}

func TestShortPullResetsWithoutFetch(t *testing.T) {
	f := newFixture(t, 12, 5, nil)

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 2))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 5))
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 5))
	assert.Equal(t, refresh.PhaseResetting, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)

	f.frame(t, 400*time.Millisecond)
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)
	assert.False(t, f.m.hooks.refreshRequested)
}

func TestPassThroughDragScrollsContent(t *testing.T) {
	f := newFixture(t, 60, 40, nil)
	require.Equal(t, 0, f.m.pane.vp.YOffset)

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 10))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 5))
	assert.Equal(t, 5, f.m.pane.vp.YOffset)
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 5))
}

func TestAutoLoadAtBottom(t *testing.T) {
	f := newFixture(t, 50, 40, func(c *config.Config) { c.Refresh.AutoLoadMore = true })

	for i := 0; i < 3; i++ {
		f.send(t, tea.KeyMsg{Type: tea.KeyPgDown})
	}
	require.True(t, f.m.pane.vp.AtBottom())
	require.True(t, f.m.engine.NeedsFrame())

	f.frame(t, 10*time.Millisecond)
	require.Equal(t, refresh.PhaseTriggering, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)

	cmd := f.frame(t, 400*time.Millisecond)
	require.NotNil(t, cmd)
	assert.Equal(t, refresh.PhaseSettled, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
	assert.Contains(t, f.m.View(), "Loading...")

	f.send(t, f.fetch(t, len(f.m.commits), false))
	assert.Len(t, f.m.commits, 50)
	assert.False(t, f.m.hooks.IsPullLoadEnable(), "source exhausted")
	assert.Equal(t, refresh.PhaseResetting, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
	f.frame(t, 400*time.Millisecond)
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
}

func TestAutoLoadAfterMouseDragToBottom(t *testing.T) {
	f := newFixture(t, 50, 30, func(c *config.Config) { c.Refresh.AutoLoadMore = true })
	require.False(t, f.m.pane.vp.AtBottom())

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 15))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 0))
	require.True(t, f.m.pane.vp.AtBottom(), "drag scrolls the list to its end")
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 0))

	f.frame(t, 10*time.Millisecond)
	assert.Equal(t, refresh.PhaseTriggering, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)

	cmd := f.frame(t, 400*time.Millisecond)
	require.NotNil(t, cmd)
	assert.Equal(t, refresh.PhaseSettled, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
}

func TestAutoLoadWhilePointerStillDown(t *testing.T) {
	f := newFixture(t, 50, 30, func(c *config.Config) { c.Refresh.AutoLoadMore = true })

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 15))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 0))
	f.frame(t, 10*time.Millisecond)
	assert.Equal(t, refresh.PhaseTriggering, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 0))
	assert.Equal(t, refresh.PhaseTriggering, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
}

func TestToggleLoad(t *testing.T) {
	f := newFixture(t, 12, 5, nil)
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.False(t, f.m.hooks.IsPullLoadEnable())
	assert.Contains(t, f.m.View(), "off")

	// pull up at the bottom of a short list is no longer claimed
	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 15))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 5))
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelLoad).Phase)
}

func TestFailedPageStillAcknowledges(t *testing.T) {
	f := newFixture(t, 12, 5, nil)
	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 2))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 14))
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 14))
	f.frame(t, 400*time.Millisecond)

	f.send(t, pageLoadedMsg{refresh: true, err: errors.New("network down")})
	assert.Equal(t, refresh.PhaseResetting, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)
	assert.Len(t, f.m.commits, 5, "old rows kept")
	assert.Contains(t, f.m.View(), "network down")
}

func TestQuitStopsEngine(t *testing.T) {
	f := newFixture(t, 12, 5, nil)
	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 2))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 14))
	f.send(t, mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 14))

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, refresh.PhaseIdle, f.m.engine.Snapshot(refresh.ChannelRefresh).Phase)
}

func TestRenderBodyHeight(t *testing.T) {
	f := newFixture(t, 60, 40, nil)
	body := f.m.renderBody()
	assert.Len(t, strings.Split(body, "\n"), f.m.contentHeight())

	f.send(t, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 2))
	f.send(t, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 6))
	body = f.m.renderBody()
	lines := strings.Split(body, "\n")
	assert.Len(t, lines, f.m.contentHeight())
	assert.Contains(t, lines[2], "Pull down to refresh")
}

func TestRenderCommitTruncates(t *testing.T) {
	c := model.Commit{
		Hash:    "0123456789abcdef",
		Author:  "ada",
		When:    "now",
		Refs:    "HEAD -> main",
		Subject: strings.Repeat("long subject ", 10),
	}
	line := renderCommit(c, 40)
	assert.Contains(t, line, "0123456")
	assert.Contains(t, line, "…")
	assert.Contains(t, line, "(HEAD -> main)")
}

func TestIndicatorGlyph(t *testing.T) {
	snap := refresh.Snapshot{Progress: 0}
	assert.Equal(t, rotationFrames[0], indicatorGlyph(snap, 0, headerTrim))
	assert.Equal(t, rotationFrames[2], indicatorGlyph(snap, 0, footerTrim))

	snap.Spinning = true
	assert.Equal(t, spinnerFrames[1], indicatorGlyph(snap, 1, headerTrim))
	assert.Equal(t, spinnerFrames[3], indicatorGlyph(snap, 1, footerTrim))

	assert.Len(t, renderBand(snap, 20, 5, 0, 0), 5)
	assert.Nil(t, renderBand(snap, 20, 0, 0, 0))
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Refresh.FinalHeight = -1
	_, err := New(Options{Config: cfg, Source: &feed.Demo{}})
	require.ErrorIs(t, err, refresh.ErrInvalidThreshold)
}

func TestDemoSourceThroughCommand(t *testing.T) {
	src := &feed.Demo{Total: 3}
	msg := fetchPageCmd(src, 0, 10, true)()
	loaded, ok := msg.(pageLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Len(t, loaded.page.Commits, 3)

	_, err := src.Page(context.Background(), 0, 1)
	require.NoError(t, err)
}
