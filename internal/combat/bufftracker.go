package combat

import "github.com/rs/zerolog"

type buffWindow struct {
	buff  Buff
	start float64
	end   float64
}

func (w buffWindow) contains(t float64) bool {
	return w.start <= t && t < w.end
}

// BuffTracker keeps the timed windows of every buff applied during a run.
type BuffTracker struct {
	windows []buffWindow
	log     zerolog.Logger
}

func NewBuffTracker(log zerolog.Logger) *BuffTracker {
	return &BuffTracker{log: log}
}

// Activate opens a window for b at time at. If the buff is already running
// its window is extended to at+Duration instead of stacking a second one.
func (bt *BuffTracker) Activate(b Buff, at float64) bool {
	if b.Duration <= 0 {
		bt.log.Warn().Str("buff", b.Name).Float64("t", at).Float64("duration", b.Duration).
			Msg("refusing to activate buff without a positive duration")
		return false
	}
	end := at + b.Duration
	if i := bt.find(b.Name, at); i >= 0 {
		bt.windows[i].end = end
		return true
	}
	bt.windows = append(bt.windows, buffWindow{buff: b, start: at, end: end})
	return true
}

// Remove ends the running window of the named buff at time at.
func (bt *BuffTracker) Remove(name string, at float64) bool {
	i := bt.find(name, at)
	if i < 0 {
		return false
	}
	if at <= bt.windows[i].start {
		bt.windows = append(bt.windows[:i], bt.windows[i+1:]...)
		return true
	}
	bt.windows[i].end = at
	return true
}

func (bt *BuffTracker) find(name string, at float64) int {
	for i := len(bt.windows) - 1; i >= 0; i-- {
		if bt.windows[i].buff.Name == name && bt.windows[i].contains(at) {
			return i
		}
	}
	return -1
}

func (bt *BuffTracker) ActiveAt(at float64) []Buff {
	var out []Buff
	for _, w := range bt.windows {
		if w.contains(at) {
			out = append(out, w.buff)
		}
	}
	return out
}

func (bt *BuffTracker) ActiveEffectsAt(at float64) CombinedEffects {
	return Combine(bt.ActiveAt(at)...)
}

func (bt *BuffTracker) IsActive(name string, at float64) bool {
	return bt.find(name, at) >= 0
}

func (bt *BuffTracker) Remaining(name string, at float64) float64 {
	i := bt.find(name, at)
	if i < 0 {
		return 0
	}
	return bt.windows[i].end - at
}
