package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pullrefresh/internal/refresh"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `refresh:
  final_height: 48
  auto_load_more: true
  settle_duration: 450ms
  labels:
    pull_refresh: Keep pulling
feed:
  source: demo
  latency: 2s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 48.0, cfg.Refresh.FinalHeight)
	assert.True(t, cfg.Refresh.AutoLoadMore)
	assert.True(t, cfg.Refresh.PullLoadEnable, "unset keys keep defaults")
	assert.Equal(t, 450*time.Millisecond, cfg.Refresh.SettleDuration)
	assert.Equal(t, "Keep pulling", cfg.Refresh.Labels.PullRefresh)
	assert.Equal(t, refresh.DefaultLabels().Loading, cfg.Refresh.Labels.Loading)
	assert.Equal(t, SourceDemo, cfg.Feed.Source)
	assert.Equal(t, 2*time.Second, cfg.Feed.Latency)
	assert.Equal(t, 30, cfg.Feed.PageSize)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{name: "zero height", body: "refresh:\n  final_height: 0\n", want: ErrFinalHeight},
		{name: "negative duration", body: "refresh:\n  settle_duration: -1s\n", want: ErrDuration},
		{name: "easing", body: "refresh:\n  easing: bounce\n", want: ErrEasing},
		{name: "source", body: "feed:\n  source: rss\n", want: ErrSource},
		{name: "page size", body: "feed:\n  page_size: 0\n", want: ErrPageSize},
		{name: "row height", body: "ui:\n  row_height: -2\n", want: ErrRowHeight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "refresh: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Empty(t, ResolvePath(""))

	dir := filepath.Join(xdg, "pullrefresh")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	want := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(want, []byte("{}\n"), 0o600))
	assert.Equal(t, want, ResolvePath(""))
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Refresh.FinalHeight = 40
	cfg.Refresh.PullLoadEnable = false
	cfg.Refresh.Easing = "linear"

	opts := cfg.Options()
	assert.Equal(t, 40.0, opts.Thresholds.FinalHeight)
	assert.Equal(t, 80.0, opts.Thresholds.OverHeight())
	assert.True(t, opts.RefreshEnabled)
	assert.False(t, opts.LoadEnabled)
	assert.InDelta(t, 0.25, opts.Ease(0.25), 1e-9)
	assert.Equal(t, refresh.DefaultLabels(), opts.Labels)

	_, err := refresh.New(opts)
	require.NoError(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, out, "settle_duration: 300ms")

	cfg, err := Load(writeConfig(t, out))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
