package anim

import "time"

// Tween interpolates From→To over Duration.
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
	Ease     Easing
}

// At returns the value after elapsed time and whether the tween has finished.
func (tw Tween) At(elapsed time.Duration) (float64, bool) {
	if tw.Duration <= 0 || elapsed >= tw.Duration {
		return tw.To, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	ease := tw.Ease
	if ease == nil {
		ease = EaseInOut
	}
	p := ease(float64(elapsed) / float64(tw.Duration))
	return tw.From + (tw.To-tw.From)*p, false
}

// TaskID identifies a running task. The zero value never names a task.
type TaskID uint64

type task struct {
	id      TaskID
	start   time.Time
	tween   Tween
	onFrame func(float64)
	onDone  func()
}

// Scheduler holds running tweens and steps them on Advance.
type Scheduler struct {
	tasks  []*task
	nextID TaskID
}

// Start registers a tween beginning at now. onFrame receives every
// interpolated value, including the final one; onDone runs once after the
// final frame. Either callback may be nil.
func (s *Scheduler) Start(now time.Time, tw Tween, onFrame func(float64), onDone func()) TaskID {
	s.nextID++
	s.tasks = append(s.tasks, &task{
		id:      s.nextID,
		start:   now,
		tween:   tw,
		onFrame: onFrame,
		onDone:  onDone,
	})
	return s.nextID
}

// Cancel drops the task without running its completion callback. It reports
// whether the task was still running.
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Running reports whether id names a task that has not finished.
func (s *Scheduler) Running(id TaskID) bool {
	for _, t := range s.tasks {
		if t.id == id {
			return true
		}
	}
	return false
}

// Advance steps every task to now in start order and returns the number of
// tasks still running. Tasks started from a callback during Advance are first
// stepped on the next call.
func (s *Scheduler) Advance(now time.Time) int {
	batch := make([]*task, len(s.tasks))
	copy(batch, s.tasks)
	for _, t := range batch {
		if !s.Running(t.id) {
			// cancelled by an earlier callback in this batch
			continue
		}
		v, done := t.tween.At(now.Sub(t.start))
		if t.onFrame != nil {
			t.onFrame(v)
		}
		if done {
			s.Cancel(t.id)
			if t.onDone != nil {
				t.onDone()
			}
		}
	}
	return len(s.tasks)
}

// Active reports whether any task is running.
func (s *Scheduler) Active() bool { return len(s.tasks) > 0 }

// Len returns the number of running tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// Clear drops every task without completing it.
func (s *Scheduler) Clear() { s.tasks = nil }
