package refresh

import "time"

// ScrollChanged notes that the content scrolled. Notifications arriving
// within the debounce window collapse into one check, performed by the first
// Advance after the window closes.
func (e *Engine) ScrollChanged() {
	if !e.autoLoad {
		return
	}
	e.autoLoadPending = true
	e.autoLoadAt = e.clock().Add(e.debounce)
}

func (e *Engine) loadEnabled() bool {
	if e.controller != nil {
		return e.controller.IsPullLoadEnable()
	}
	_, load := e.router.Enabled()
	return load
}

// autoLoadMore triggers the footer as if it had been pulled all the way when
// the content can no longer scroll down.
func (e *Engine) autoLoadMore(now time.Time) {
	if !e.autoLoad || !e.loadEnabled() || e.Busy() {
		return
	}
	// an open gesture blocks only once it owns a channel
	if !e.refresh.Idle() || !e.load.Idle() || e.router.Channel() != ChannelNone {
		return
	}
	if e.router.canScrollDown() {
		return
	}
	st := e.load
	e.log.V(1).Info("auto load", "channel", st.channel.String())
	if st.setOffset(e.over, e.over) {
		e.notifyOffset(st)
	}
	st.label = e.labels.release(st.channel)
	e.trigger(st, now)
}
