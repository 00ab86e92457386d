package refresh

// GestureSession tracks one down→up pointer cycle.
type GestureSession struct {
	StartX, StartY float64
	LastX, LastY   float64
	Decided        bool
	Channel        Channel
	active         bool
	dy             float64
}

// Router classifies pointer gestures into a channel. The decision is made on
// the first move of a gesture and latched until the pointer lifts.
type Router struct {
	edge       EdgeQuery
	controller Controller
	// gate vetoes claiming a channel, e.g. while another channel is busy.
	gate func(Channel) bool

	refreshEnabled bool
	loadEnabled    bool

	session GestureSession
}

// NewRouter returns a router with the configured enable flags. controller
// and gate may be nil.
func NewRouter(edge EdgeQuery, controller Controller, refreshEnabled, loadEnabled bool, gate func(Channel) bool) *Router {
	return &Router{
		edge:           edge,
		controller:     controller,
		gate:           gate,
		refreshEnabled: refreshEnabled,
		loadEnabled:    loadEnabled,
	}
}

// Down starts a new session and re-reads the enable flags.
func (r *Router) Down(x, y float64) {
	if r.controller != nil {
		r.refreshEnabled = r.controller.IsPullRefreshEnable()
		r.loadEnabled = r.controller.IsPullLoadEnable()
	}
	r.session = GestureSession{
		StartX: x, StartY: y,
		LastX: x, LastY: y,
		active: true,
	}
}

// Move records the pointer position and returns Claim when the gesture
// belongs to a channel. A move without a preceding Down starts a session at
// the move position and leaves the decision to the next move.
func (r *Router) Move(x, y float64) Decision {
	if !r.session.active {
		r.Down(x, y)
		return PassThrough
	}
	dy := y - r.session.LastY
	r.session.LastX, r.session.LastY = x, y
	r.session.dy = dy

	if !r.session.Decided {
		r.session.Decided = true
		r.session.Channel = r.decide(dy)
	}
	if r.session.Channel == ChannelNone {
		return PassThrough
	}
	return Claim
}

func (r *Router) decide(dy float64) Channel {
	var ch Channel
	switch {
	case dy > 0 && r.refreshEnabled && !r.canScrollUp():
		ch = ChannelRefresh
	case dy < 0 && r.loadEnabled && !r.canScrollDown():
		ch = ChannelLoad
	default:
		return ChannelNone
	}
	if r.gate != nil && !r.gate(ch) {
		return ChannelNone
	}
	return ch
}

// Up ends the session and returns the vertical distance moved since the
// last Move.
func (r *Router) Up(x, y float64) float64 {
	var dy float64
	if r.session.active {
		dy = y - r.session.LastY
	}
	r.session = GestureSession{}
	return dy
}

// Delta is the vertical distance covered by the last Move.
func (r *Router) Delta() float64 { return r.session.dy }

// Session returns a copy of the current session.
func (r *Router) Session() GestureSession { return r.session }

// Channel is the latched channel of the live gesture.
func (r *Router) Channel() Channel { return r.session.Channel }

// Active reports whether a gesture is in progress.
func (r *Router) Active() bool { return r.session.active }

// Enabled returns the flags read at the last Down.
func (r *Router) Enabled() (refresh, load bool) { return r.refreshEnabled, r.loadEnabled }

// Eligible re-validates that ch may still move given the content's edges.
func (r *Router) Eligible(ch Channel) bool {
	switch ch {
	case ChannelRefresh:
		return r.refreshEnabled && !r.canScrollUp()
	case ChannelLoad:
		return r.loadEnabled && !r.canScrollDown()
	}
	return false
}

func (r *Router) canScrollUp() bool   { return r.edge != nil && r.edge.CanScrollUp() }
func (r *Router) canScrollDown() bool { return r.edge != nil && r.edge.CanScrollDown() }
