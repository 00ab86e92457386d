// Package config loads the YAML configuration and turns it into engine
// options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pullrefresh/internal/anim"
	"pullrefresh/internal/refresh"
	"pullrefresh/internal/settings"
)

// Config is the full configuration file.
type Config struct {
	Refresh RefreshConfig `yaml:"refresh"`
	Feed    FeedConfig    `yaml:"feed"`
	UI      UIConfig      `yaml:"ui"`
}

// RefreshConfig mirrors refresh.Options.
type RefreshConfig struct {
	FinalHeight       float64       `yaml:"final_height"`
	ClickDeviation    float64       `yaml:"click_deviation"`
	PullRefreshEnable bool          `yaml:"pull_refresh_enable"`
	PullLoadEnable    bool          `yaml:"pull_load_enable"`
	AutoLoadMore      bool          `yaml:"auto_load_more"`
	SettleDuration    time.Duration `yaml:"settle_duration"`
	AutoLoadDebounce  time.Duration `yaml:"auto_load_debounce"`
	Easing            string        `yaml:"easing"`
	Labels            LabelConfig   `yaml:"labels"`
}

// LabelConfig holds the indicator captions. Empty values use the defaults.
type LabelConfig struct {
	PullRefresh    string `yaml:"pull_refresh,omitempty"`
	ReleaseRefresh string `yaml:"release_refresh,omitempty"`
	Refreshing     string `yaml:"refreshing,omitempty"`
	PullLoad       string `yaml:"pull_load,omitempty"`
	ReleaseLoad    string `yaml:"release_load,omitempty"`
	Loading        string `yaml:"loading,omitempty"`
}

// FeedConfig selects where the host's list comes from.
type FeedConfig struct {
	Source   string        `yaml:"source"` // "git" or "demo"
	Repo     string        `yaml:"repo"`
	PageSize int           `yaml:"page_size"`
	Latency  time.Duration `yaml:"latency"`
}

// UIConfig controls how engine units map onto the terminal.
type UIConfig struct {
	// RowHeight is the number of engine units in one terminal row.
	RowHeight     float64       `yaml:"row_height"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

const (
	SourceGit  = "git"
	SourceDemo = "demo"
)

// Default returns the built-in configuration.
func Default() Config {
	l := refresh.DefaultLabels()
	return Config{
		Refresh: RefreshConfig{
			FinalHeight:       refresh.DefaultFinalHeight,
			ClickDeviation:    refresh.DefaultClickDeviation,
			PullRefreshEnable: true,
			PullLoadEnable:    true,
			SettleDuration:    refresh.DefaultSettleDuration,
			AutoLoadDebounce:  refresh.DefaultAutoLoadDebounce,
			Easing:            "ease-in-out",
			Labels: LabelConfig{
				PullRefresh:    l.PullRefresh,
				ReleaseRefresh: l.ReleaseRefresh,
				Refreshing:     l.Refreshing,
				PullLoad:       l.PullLoad,
				ReleaseLoad:    l.ReleaseLoad,
				Loading:        l.Loading,
			},
		},
		Feed: FeedConfig{
			Source:   SourceGit,
			Repo:     ".",
			PageSize: 30,
			Latency:  time.Second,
		},
		UI: UIConfig{
			RowHeight:     16,
			FrameInterval: 16 * time.Millisecond,
		},
	}
}

// ResolvePath returns explicit when set, otherwise the first existing file of
// $XDG_CONFIG_HOME/pullrefresh/config.yaml and ~/.config/pullrefresh/config.yaml.
// It returns "" when there is no config file.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidate string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.BinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.BinaryName, "config.yaml")
	}
	if candidate == "" {
		return ""
	}
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return candidate
	}
	return ""
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var (
	ErrFinalHeight = errors.New("refresh.final_height must be positive")
	ErrDuration    = errors.New("durations must not be negative")
	ErrEasing      = errors.New("unknown refresh.easing")
	ErrSource      = errors.New("feed.source must be git or demo")
	ErrPageSize    = errors.New("feed.page_size must be positive")
	ErrRowHeight   = errors.New("ui.row_height must be positive")
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	r := c.Refresh
	if r.FinalHeight <= 0 {
		return ErrFinalHeight
	}
	if r.SettleDuration < 0 || r.AutoLoadDebounce < 0 || c.Feed.Latency < 0 || c.UI.FrameInterval < 0 {
		return ErrDuration
	}
	if _, ok := anim.ByName(r.Easing); !ok {
		return fmt.Errorf("%w: %q", ErrEasing, r.Easing)
	}
	if c.Feed.Source != SourceGit && c.Feed.Source != SourceDemo {
		return fmt.Errorf("%w, got %q", ErrSource, c.Feed.Source)
	}
	if c.Feed.PageSize <= 0 {
		return ErrPageSize
	}
	if c.UI.RowHeight <= 0 {
		return ErrRowHeight
	}
	return nil
}

// Options converts the refresh section into engine options. Hooks, clock and
// logger are left for the caller.
func (c Config) Options() refresh.Options {
	r := c.Refresh
	ease, ok := anim.ByName(r.Easing)
	if !ok {
		ease = anim.EaseInOut
	}
	return refresh.Options{
		Thresholds: refresh.Thresholds{
			FinalHeight:    r.FinalHeight,
			ClickDeviation: r.ClickDeviation,
		},
		RefreshEnabled:   r.PullRefreshEnable,
		LoadEnabled:      r.PullLoadEnable,
		AutoLoadMore:     r.AutoLoadMore,
		SettleDuration:   r.SettleDuration,
		AutoLoadDebounce: r.AutoLoadDebounce,
		Ease:             ease,
		Labels: refresh.Labels{
			PullRefresh:    r.Labels.PullRefresh,
			ReleaseRefresh: r.Labels.ReleaseRefresh,
			Refreshing:     r.Labels.Refreshing,
			PullLoad:       r.Labels.PullLoad,
			ReleaseLoad:    r.Labels.ReleaseLoad,
			Loading:        r.Labels.Loading,
		},
	}
}

// Marshal renders c as YAML.
func (c Config) Marshal() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}
