// Package cmd is the pullrefresh command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"pullrefresh/internal/config"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/logger"
	"pullrefresh/internal/settings"
	"pullrefresh/internal/tui"
)

// Size of the synthetic history and how many commits each refresh adds.
const (
	demoTotal  = 500
	demoGrowth = 3
)

var errNotTerminal = errors.New("stdout is not a terminal; the browser needs an interactive terminal")

type rootOptions struct {
	run *settings.Run
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{run: settings.NewRun()}

	cmd := &cobra.Command{
		Use:   settings.BinaryName + " [repo]",
		Short: "Browse commit history with pull-to-refresh and pull-up-to-load",
		Long: "Browse the history of a git repository in the terminal.\n\n" +
			"Drag down with the mouse at the top of the list to refresh, drag up\n" +
			"at the bottom to load older commits. Use --source demo for a\n" +
			"synthetic history with simulated latency.",
		Example:      "  pullrefresh\n  pullrefresh ~/src/project --page-size 50\n  pullrefresh --source demo --auto-load",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			lgr := logger.Get(o.run.MinLogLevel, o.run.LogFile).WithValues("command", cmd.Name())
			ctx := logger.WithLogger(cmd.Context(), &lgr)
			cmd.SetContext(settings.IntoContext(ctx, o.run))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o.run.ConfigPath, cmd.Flags(), args)
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			return browse(cmd.Context(), cfg, o.run)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.run.ConfigPath, "config", "", "path to a YAML config file")
	pf.StringVar(&o.run.LogFile, "log-file", "", "write JSON logs to this file")
	pf.Int8VarP(&o.run.MinLogLevel, "verbose", "v", 0, "log verbosity (1 = debug)")
	pf.BoolVar(&o.run.NoColor, "no-color", false, "disable color output")
	addFeedFlags(pf)

	cmd.AddCommand(newVersionCmd(), newConfigCmd(o))
	return cmd
}

// addFeedFlags registers the flags that override config values. Zero values
// here never reach the config; only flags set on the command line do.
func addFeedFlags(fs *pflag.FlagSet) {
	fs.Bool("auto-load", false, "load older commits when the list is scrolled to the bottom")
	fs.Bool("no-refresh", false, "disable pull-to-refresh")
	fs.Bool("no-load", false, "disable pull-up-to-load")
	fs.String("source", "", "history source: git or demo")
	fs.String("repo", "", "repository to browse (default: current directory)")
	fs.Int("page-size", 0, "commits per page")
	fs.Duration("latency", 0, "simulated latency of the demo source")
	fs.String("easing", "", "animation curve: ease-in-out, ease-in-out-cubic, ease-out, linear")
}

// loadConfig merges defaults, the config file, changed flags and the
// positional repo argument, in that order.
func loadConfig(explicit string, fs *pflag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(explicit))
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(&cfg, fs); err != nil {
		return cfg, err
	}
	if len(args) > 0 {
		cfg.Feed.Repo = args[0]
		cfg.Feed.Source = config.SourceGit
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	var errs []error
	set := func(name string, apply func() error) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			errs = append(errs, apply())
		}
	}
	set("auto-load", func() (err error) {
		cfg.Refresh.AutoLoadMore, err = fs.GetBool("auto-load")
		return err
	})
	set("no-refresh", func() error {
		off, err := fs.GetBool("no-refresh")
		cfg.Refresh.PullRefreshEnable = !off
		return err
	})
	set("no-load", func() error {
		off, err := fs.GetBool("no-load")
		cfg.Refresh.PullLoadEnable = !off
		return err
	})
	set("source", func() (err error) {
		cfg.Feed.Source, err = fs.GetString("source")
		return err
	})
	set("repo", func() (err error) {
		cfg.Feed.Repo, err = fs.GetString("repo")
		return err
	})
	set("page-size", func() (err error) {
		cfg.Feed.PageSize, err = fs.GetInt("page-size")
		return err
	})
	set("latency", func() (err error) {
		cfg.Feed.Latency, err = fs.GetDuration("latency")
		return err
	})
	set("easing", func() (err error) {
		cfg.Refresh.Easing, err = fs.GetString("easing")
		return err
	})
	return errors.Join(errs...)
}

// buildSource returns the feed for cfg and a title for the list.
func buildSource(cfg config.Config) (feed.Source, string, error) {
	if cfg.Feed.Source == config.SourceDemo {
		return &feed.Demo{Total: demoTotal, Latency: cfg.Feed.Latency, Growth: demoGrowth}, "Demo history", nil
	}
	root, err := feed.RepoRoot(cfg.Feed.Repo)
	if err != nil {
		return nil, "", err
	}
	return feed.GitLog{Repo: root}, filepath.Base(root), nil
}

func browse(ctx context.Context, cfg config.Config, run *settings.Run) error {
	lgr := logger.FromContext(ctx)

	src, title, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if run.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	m, err := tui.New(tui.Options{
		Config: cfg,
		Source: src,
		Logger: *lgr,
		Title:  title,
	})
	if err != nil {
		return err
	}

	lgr.Info("starting", "source", cfg.Feed.Source, "repo", cfg.Feed.Repo, "page_size", cfg.Feed.PageSize)
	start := time.Now()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	lgr.Info("exiting", "elapsed", time.Since(start).String())
	return nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
