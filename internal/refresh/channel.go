package refresh

import "pullrefresh/internal/anim"

// ChannelState is the mutable state of one channel. It lives for the
// lifetime of its Engine.
type ChannelState struct {
	channel  Channel
	offset   float64
	phase    Phase
	busy     bool
	label    string
	spinning bool
	task     anim.TaskID
}

func newChannelState(ch Channel, labels Labels) *ChannelState {
	return &ChannelState{
		channel: ch,
		label:   labels.pull(ch),
	}
}

func (c *ChannelState) Channel() Channel { return c.channel }
func (c *ChannelState) Offset() float64  { return c.offset }
func (c *ChannelState) Phase() Phase     { return c.phase }

// Busy reports whether a trigger or its acknowledgement is outstanding.
func (c *ChannelState) Busy() bool { return c.busy }

// Idle reports whether the channel is at rest.
func (c *ChannelState) Idle() bool { return c.phase == PhaseIdle }

// draggable reports whether a drag may move the offset.
func (c *ChannelState) draggable() bool {
	return c.phase == PhaseIdle || c.phase == PhaseDragging
}

// setOffset clamps v into [0, over] and reports whether it changed.
func (c *ChannelState) setOffset(v, over float64) bool {
	if v < 0 {
		v = 0
	} else if v > over {
		v = over
	}
	if v == c.offset {
		return false
	}
	c.offset = v
	return true
}

func (c *ChannelState) snapshot(over float64) Snapshot {
	var progress float64
	if over > 0 {
		progress = c.offset / over
	}
	return Snapshot{
		Channel:  c.channel,
		Phase:    c.phase,
		Offset:   c.offset,
		Progress: progress,
		Label:    c.label,
		Busy:     c.busy,
		Spinning: c.spinning,
	}
}
