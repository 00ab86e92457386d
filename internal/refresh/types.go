// Package refresh turns pointer gestures into pull-to-refresh and
// pull-up-to-load-more lifecycle transitions.
//
// An Engine owns two channels, one for the header (refresh) and one for the
// footer (load). A Router decides which of them, if any, owns a gesture. Drag
// distance moves the channel offset, release either triggers the channel or
// resets it, and every settle is an eased animation advanced by the host's
// frame ticks. All methods must be called from one goroutine.
package refresh

import (
	"time"

	"github.com/go-logr/logr"

	"pullrefresh/internal/anim"
)

// Channel names one of the two gesture tracks.
type Channel int

const (
	ChannelNone Channel = iota
	ChannelRefresh
	ChannelLoad
)

func (c Channel) String() string {
	switch c {
	case ChannelRefresh:
		return "refresh"
	case ChannelLoad:
		return "load"
	}
	return "none"
}

// Phase is the lifecycle position of a channel.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	// PhaseTriggering animates the offset to the rest height.
	PhaseTriggering
	// PhaseSettled waits for the host to acknowledge the refresh or load.
	PhaseSettled
	PhaseResetting
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseTriggering:
		return "triggering"
	case PhaseSettled:
		return "settled"
	case PhaseResetting:
		return "resetting"
	}
	return "idle"
}

// Decision is the router's verdict for a pointer move.
type Decision int

const (
	PassThrough Decision = iota
	Claim
)

// EdgeQuery reports the scroll state of the wrapped content at call time.
type EdgeQuery interface {
	CanScrollUp() bool
	CanScrollDown() bool
}

// Controller is polled at the start of every gesture.
type Controller interface {
	IsPullRefreshEnable() bool
	IsPullLoadEnable() bool
}

// Listener receives lifecycle callbacks. Each successful trigger calls
// exactly one method exactly once.
type Listener interface {
	OnRefresh()
	OnLoadMore()
}

// OffsetListener is an optional extension of Listener notified whenever a
// channel offset changes.
type OffsetListener interface {
	OnOffsetChanged(ch Channel, offset float64)
}

// Thresholds are the distances that drive triggering.
type Thresholds struct {
	// FinalHeight is the rest height of a triggered channel.
	FinalHeight float64
	// ClickDeviation is the smallest offset treated as a deliberate drag.
	ClickDeviation float64
}

// OverHeight is the release distance that triggers a channel.
func (t Thresholds) OverHeight() float64 { return 2 * t.FinalHeight }

// Labels are the indicator captions for each channel state.
type Labels struct {
	PullRefresh    string
	ReleaseRefresh string
	Refreshing     string
	PullLoad       string
	ReleaseLoad    string
	Loading        string
}

// DefaultLabels returns the stock captions.
func DefaultLabels() Labels {
	return Labels{
		PullRefresh:    "Pull down to refresh",
		ReleaseRefresh: "Release to refresh",
		Refreshing:     "Refreshing...",
		PullLoad:       "Pull up to load more",
		ReleaseLoad:    "Release to load more",
		Loading:        "Loading...",
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.PullRefresh, d.PullRefresh)
	fill(&l.ReleaseRefresh, d.ReleaseRefresh)
	fill(&l.Refreshing, d.Refreshing)
	fill(&l.PullLoad, d.PullLoad)
	fill(&l.ReleaseLoad, d.ReleaseLoad)
	fill(&l.Loading, d.Loading)
	return l
}

func (l Labels) pull(ch Channel) string {
	if ch == ChannelLoad {
		return l.PullLoad
	}
	return l.PullRefresh
}

func (l Labels) release(ch Channel) string {
	if ch == ChannelLoad {
		return l.ReleaseLoad
	}
	return l.ReleaseRefresh
}

func (l Labels) busy(ch Channel) string {
	if ch == ChannelLoad {
		return l.Loading
	}
	return l.Refreshing
}

const (
	DefaultFinalHeight      = 80
	DefaultClickDeviation   = 4
	DefaultSettleDuration   = 300 * time.Millisecond
	DefaultAutoLoadDebounce = 6 * time.Millisecond
)

// Options configures an Engine. The zero value of each field selects its
// default, except the enable flags which are taken as given.
type Options struct {
	Thresholds       Thresholds
	RefreshEnabled   bool
	LoadEnabled      bool
	AutoLoadMore     bool
	Labels           Labels
	SettleDuration   time.Duration
	AutoLoadDebounce time.Duration
	Ease             anim.Easing

	Controller Controller
	Listener   Listener
	// Clock returns the current time. It defaults to time.Now.
	Clock  func() time.Time
	Logger logr.Logger
}

// DefaultOptions enables both channels with the stock thresholds.
func DefaultOptions() Options {
	return Options{
		Thresholds: Thresholds{
			FinalHeight:    DefaultFinalHeight,
			ClickDeviation: DefaultClickDeviation,
		},
		RefreshEnabled:   true,
		LoadEnabled:      true,
		Labels:           DefaultLabels(),
		SettleDuration:   DefaultSettleDuration,
		AutoLoadDebounce: DefaultAutoLoadDebounce,
		Ease:             anim.EaseInOut,
	}
}

// Snapshot is the render-facing view of one channel.
type Snapshot struct {
	Channel  Channel
	Phase    Phase
	Offset   float64
	Progress float64
	Label    string
	Busy     bool
	Spinning bool
}
