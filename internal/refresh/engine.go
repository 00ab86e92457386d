package refresh

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"pullrefresh/internal/anim"
)

// Engine is the refresh/load state machine.
type Engine struct {
	th       Thresholds
	over     float64
	labels   Labels
	settle   time.Duration
	debounce time.Duration
	ease     anim.Easing
	autoLoad bool

	controller Controller
	listener   Listener
	clock      func() time.Time
	log        logr.Logger

	router  *Router
	refresh *ChannelState
	load    *ChannelState
	sched   anim.Scheduler

	autoLoadPending bool
	autoLoadAt      time.Time
}

// New builds an Engine around at most one content view. Passing no content
// is allowed: both edges then report that the content cannot scroll.
func New(opts Options, content ...EdgeQuery) (*Engine, error) {
	if len(content) > 1 {
		return nil, &ConfigError{Field: "content", Err: fmt.Errorf("%w: got %d", ErrMultipleContent, len(content))}
	}
	if opts.Thresholds.FinalHeight <= 0 {
		return nil, &ConfigError{Field: "final height", Err: ErrInvalidThreshold}
	}
	if opts.SettleDuration < 0 {
		return nil, &ConfigError{Field: "settle duration", Err: ErrInvalidDuration}
	}
	if opts.AutoLoadDebounce < 0 {
		return nil, &ConfigError{Field: "auto-load debounce", Err: ErrInvalidDuration}
	}
	if opts.SettleDuration == 0 {
		opts.SettleDuration = DefaultSettleDuration
	}
	if opts.AutoLoadDebounce == 0 {
		opts.AutoLoadDebounce = DefaultAutoLoadDebounce
	}
	if opts.Thresholds.ClickDeviation < 0 {
		opts.Thresholds.ClickDeviation = 0
	}
	if opts.Ease == nil {
		opts.Ease = anim.EaseInOut
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var edge EdgeQuery
	if len(content) == 1 {
		edge = content[0]
	}

	labels := opts.Labels.withDefaults()
	e := &Engine{
		th:         opts.Thresholds,
		over:       opts.Thresholds.OverHeight(),
		labels:     labels,
		settle:     opts.SettleDuration,
		debounce:   opts.AutoLoadDebounce,
		ease:       opts.Ease,
		autoLoad:   opts.AutoLoadMore,
		controller: opts.Controller,
		listener:   opts.Listener,
		clock:      opts.Clock,
		log:        opts.Logger.WithName("refresh"),
		refresh:    newChannelState(ChannelRefresh, labels),
		load:       newChannelState(ChannelLoad, labels),
	}
	e.router = NewRouter(edge, opts.Controller, opts.RefreshEnabled, opts.LoadEnabled, e.claimable)
	return e, nil
}

// Thresholds returns the configured distances.
func (e *Engine) Thresholds() Thresholds { return e.th }

// State returns the channel state for ch, or nil for ChannelNone.
func (e *Engine) State(ch Channel) *ChannelState {
	switch ch {
	case ChannelRefresh:
		return e.refresh
	case ChannelLoad:
		return e.load
	}
	return nil
}

// Snapshot returns the render view of ch.
func (e *Engine) Snapshot(ch Channel) Snapshot {
	st := e.State(ch)
	if st == nil {
		return Snapshot{}
	}
	return st.snapshot(e.over)
}

// Gesture returns the live gesture session.
func (e *Engine) Gesture() GestureSession { return e.router.Session() }

// Busy reports whether either channel has a trigger outstanding.
func (e *Engine) Busy() bool { return e.refresh.busy || e.load.busy }

func (e *Engine) other(ch Channel) *ChannelState {
	if ch == ChannelRefresh {
		return e.load
	}
	return e.refresh
}

// claimable is the router gate: one live channel at a time, none while a
// trigger is outstanding.
func (e *Engine) claimable(ch Channel) bool {
	if e.Busy() {
		return false
	}
	return e.other(ch).Idle() && e.State(ch).draggable()
}

// PointerDown starts a gesture.
func (e *Engine) PointerDown(x, y float64) {
	e.router.Down(x, y)
}

// PointerMove feeds a move to the router and, when a channel owns the
// gesture, to that channel. consumed reports whether the channel offset is
// non-zero after the move; the host must not scroll its content while the
// decision is Claim.
func (e *Engine) PointerMove(x, y float64) (d Decision, consumed bool) {
	d = e.router.Move(x, y)
	if d == PassThrough {
		return d, false
	}
	return d, e.drag(e.router.Channel(), e.router.Delta())
}

// PointerUp ends the gesture and releases the owning channel. It reports
// whether the gesture was consumed; false lets a tap reach the content.
func (e *Engine) PointerUp(x, y float64) bool {
	ch := e.router.Channel()
	dy := e.router.Up(x, y)
	if ch == ChannelNone {
		return false
	}
	if dy != 0 {
		e.drag(ch, dy)
	}
	return e.release(ch, e.clock())
}

// PointerCancel behaves as PointerUp at the last known position.
func (e *Engine) PointerCancel() bool {
	s := e.router.Session()
	return e.PointerUp(s.LastX, s.LastY)
}

func (e *Engine) drag(ch Channel, dy float64) bool {
	st := e.State(ch)
	if st == nil || !st.draggable() {
		return false
	}
	if !e.router.Eligible(ch) {
		return false
	}
	delta := dy
	if ch == ChannelLoad {
		delta = -dy
	}
	changed := st.setOffset(st.offset+delta, e.over)
	if st.offset > 0 {
		st.phase = PhaseDragging
	} else {
		st.phase = PhaseIdle
	}
	if st.offset < e.over {
		st.label = e.labels.pull(ch)
	} else {
		st.label = e.labels.release(ch)
	}
	if changed {
		e.notifyOffset(st)
	}
	return st.offset > 0
}

func (e *Engine) release(ch Channel, now time.Time) bool {
	st := e.State(ch)
	if st == nil || !st.draggable() {
		return false
	}
	switch {
	case st.offset >= e.over:
		e.trigger(st, now)
		return true
	case st.offset > 0:
		consumed := st.offset >= e.th.ClickDeviation
		e.reset(st, now)
		return consumed
	default:
		e.rest(st)
		return false
	}
}

func (e *Engine) trigger(st *ChannelState, now time.Time) {
	st.phase = PhaseTriggering
	st.busy = true
	e.log.V(1).Info("trigger", "channel", st.channel.String(), "from", st.offset)
	st.task = e.sched.Start(now,
		anim.Tween{From: st.offset, To: e.th.FinalHeight, Duration: e.settle, Ease: e.ease},
		func(v float64) { e.moveTo(st, v) },
		func() { e.settled(st) },
	)
}

func (e *Engine) settled(st *ChannelState) {
	st.task = 0
	st.phase = PhaseSettled
	st.spinning = true
	st.label = e.labels.busy(st.channel)
	e.log.V(1).Info("settled", "channel", st.channel.String())
	if e.listener == nil {
		return
	}
	if st.channel == ChannelRefresh {
		e.listener.OnRefresh()
	} else {
		e.listener.OnLoadMore()
	}
}

func (e *Engine) reset(st *ChannelState, now time.Time) {
	st.phase = PhaseResetting
	st.spinning = false
	e.log.V(1).Info("reset", "channel", st.channel.String(), "from", st.offset)
	st.task = e.sched.Start(now,
		anim.Tween{From: st.offset, To: 0, Duration: e.settle, Ease: e.ease},
		func(v float64) { e.moveTo(st, v) },
		func() { e.rest(st) },
	)
}

func (e *Engine) rest(st *ChannelState) {
	st.task = 0
	if st.setOffset(0, e.over) {
		e.notifyOffset(st)
	}
	st.phase = PhaseIdle
	st.busy = false
	st.spinning = false
	st.label = e.labels.pull(st.channel)
}

func (e *Engine) moveTo(st *ChannelState, v float64) {
	if st.setOffset(v, e.over) {
		e.notifyOffset(st)
	}
}

func (e *Engine) notifyOffset(st *ChannelState) {
	if ol, ok := e.listener.(OffsetListener); ok {
		ol.OnOffsetChanged(st.channel, st.offset)
	}
}

// FinishRefresh acknowledges a completed refresh. It is a no-op unless the
// refresh channel is settled and waiting.
func (e *Engine) FinishRefresh() { e.finish(e.refresh) }

// FinishLoad acknowledges a completed load. It is a no-op unless the load
// channel is settled and waiting.
func (e *Engine) FinishLoad() { e.finish(e.load) }

func (e *Engine) finish(st *ChannelState) {
	if st.phase != PhaseSettled || !st.busy {
		e.log.V(1).Info("ignoring finish", "channel", st.channel.String(), "phase", st.phase.String())
		return
	}
	e.reset(st, e.clock())
}

// Advance steps running animations and the auto-load debounce to now.
func (e *Engine) Advance(now time.Time) {
	e.sched.Advance(now)
	if e.autoLoadPending && !now.Before(e.autoLoadAt) {
		e.autoLoadPending = false
		e.autoLoadMore(now)
	}
}

// NeedsFrame reports whether the host should keep delivering frames.
func (e *Engine) NeedsFrame() bool {
	return e.sched.Active() || e.autoLoadPending
}

// Stop drops running animations and returns both channels to rest. Hooks
// are not called.
func (e *Engine) Stop() {
	e.sched.Clear()
	e.autoLoadPending = false
	e.rest(e.refresh)
	e.rest(e.load)
}
