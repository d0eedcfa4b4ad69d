package combat

import (
	"math"

	"github.com/rs/zerolog"
)

const timeEpsilon = 1e-9

type cooldownState struct {
	cd Cooldown
	// capAt is when every charge is available again. Charges come back one
	// at a time, so a charge is ready at capAt-(MaxCharges-1)*Time.
	capAt float64
}

func (s *cooldownState) readyAt() float64 {
	return s.capAt - float64(s.cd.charges()-1)*s.cd.Time
}

func (s *cooldownState) charges(at float64) int {
	if s.capAt <= at {
		return s.cd.charges()
	}
	missing := int(math.Ceil((s.capAt-at)/s.cd.Time - timeEpsilon))
	if c := s.cd.charges() - missing; c > 0 {
		return c
	}
	return 0
}

type CooldownTracker struct {
	states map[int]*cooldownState
	log    zerolog.Logger
}

func NewCooldownTracker(log zerolog.Logger) *CooldownTracker {
	return &CooldownTracker{states: map[int]*cooldownState{}, log: log}
}

func (ct *CooldownTracker) state(ab *Ability) *cooldownState {
	if ab.Cooldown == nil {
		return nil
	}
	st, ok := ct.states[ab.ID]
	if !ok {
		st = &cooldownState{cd: *ab.Cooldown}
		ct.states[ab.ID] = st
	}
	return st
}

// ReadyAt is the earliest time at which ab has a charge. Abilities without a
// cooldown are always ready.
func (ct *CooldownTracker) ReadyAt(ab *Ability) float64 {
	st := ct.state(ab)
	if st == nil {
		return math.Inf(-1)
	}
	return st.readyAt()
}

func (ct *CooldownTracker) IsReady(ab *Ability, at float64) bool {
	return ct.ReadyAt(ab) <= at+timeEpsilon
}

// ReadyBy reports whether ab will have a charge no later than deadline.
func (ct *CooldownTracker) ReadyBy(ab *Ability, deadline float64) bool {
	return ct.IsReady(ab, deadline)
}

func (ct *CooldownTracker) Remaining(ab *Ability, at float64) float64 {
	if r := ct.ReadyAt(ab) - at; r > 0 {
		return r
	}
	return 0
}

func (ct *CooldownTracker) Charges(ab *Ability, at float64) int {
	st := ct.state(ab)
	if st == nil {
		return 1
	}
	return st.charges(at)
}

// Use spends a charge of ab at time at. Using an ability that is not ready
// is logged and ignored.
func (ct *CooldownTracker) Use(ab *Ability, at float64) bool {
	st := ct.state(ab)
	if st == nil {
		return true
	}
	if !ct.IsReady(ab, at) {
		ct.log.Warn().Str("ability", ab.Name).Float64("t", at).Float64("readyAt", st.readyAt()).
			Msg("ability used while on cooldown")
		return false
	}
	if st.capAt < at {
		st.capAt = at
	}
	st.capAt += st.cd.Time
	return true
}
