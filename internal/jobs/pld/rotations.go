package pld

import (
	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/sim"
)

// Options are the Paladin toggles saved with the settings.
type Options struct {
	UseIntervene bool `json:"use_intervene"`
	// HoldOgcds keeps 30s oGCDs for Fight or Flight when it is this close.
	HoldOgcds float64 `json:"hold_ogcds"`
}

func defaultOptions() Options {
	return Options{UseIntervene: true, HoldOgcds: 10}
}

// rotation is the per-run state of one candidate.
type rotation struct {
	p       *combat.Processor[State]
	opts    Options
	lateFoF bool
}

func (r *rotation) fof() bool {
	return r.p.IsBuffActive(fofBuff.Name)
}

func (r *rotation) nextGcd() *combat.Ability {
	s := r.p.GaugeState()
	if s.Confiteor > 0 {
		return confiteorChain[s.Confiteor-1]
	}
	if r.fof() {
		switch {
		case s.GoringReady:
			return GoringBlade
		case s.Atonement > 1:
			return atonementChain[s.Atonement-1]
		case s.DivineMight:
			return HolySpirit
		case s.Atonement == 1:
			return Atonement
		}
	}
	// Spend procs before Royal Authority overwrites them.
	if s.Combo == 2 || s.GoringReady {
		switch {
		case s.GoringReady:
			return GoringBlade
		case s.Atonement > 0:
			return atonementChain[s.Atonement-1]
		case s.DivineMight:
			return HolySpirit
		}
	}
	switch s.Combo {
	case 1:
		return RiotBlade
	case 2:
		return RoyalAuthority
	}
	return FastBlade
}

// held reports whether a 30s oGCD should wait for Fight or Flight.
func (r *rotation) held() bool {
	return !r.fof() && r.p.CooldownRemaining(FightOrFlight) < r.opts.HoldOgcds
}

func (r *rotation) nextOgcd() *combat.Ability {
	s := r.p.GaugeState()
	switch {
	case r.p.IsReady(FightOrFlight):
		return FightOrFlight
	case r.p.IsReady(Imperator) && (r.fof() || r.p.CooldownRemaining(FightOrFlight) > 15):
		return Imperator
	case s.BladeOfHonor:
		return BladeOfHonor
	case r.p.IsReady(CircleOfScorn) && !r.held():
		return CircleOfScorn
	case r.p.IsReady(Expiacion) && !r.held():
		return Expiacion
	case r.opts.UseIntervene && r.p.Charges(Intervene) > 0 && (r.fof() || r.p.Charges(Intervene) == 2):
		return Intervene
	}
	return nil
}

// weave fits up to two oGCDs after the GCD that was just used. A late
// Fight or Flight idles until the last slot so one more GCD lands inside it.
func (r *rotation) weave() {
	for i := 0; i < 2; i++ {
		ab := r.nextOgcd()
		if ab == nil || !r.p.CanUseWithoutClipping(ab) {
			return
		}
		if ab == FightOrFlight && r.lateFoF {
			if late := r.p.NextGcdTime() - r.p.Config().AnimationLock; late > r.p.CurrentTime() {
				r.p.AdvanceTo(late)
			}
		}
		r.p.UseOgcd(ab)
	}
}

func (r *rotation) run() {
	r.p.RemainingCycles(func(int) {
		r.p.UseGcd(r.nextGcd())
		r.weave()
	})
}

func rotations(s sim.Settings, log zerolog.Logger) []sim.Rotation[State] {
	opts := sim.DecodeOptions(s.Options, defaultOptions(), log)
	mk := func(name string, late bool) sim.Rotation[State] {
		return sim.Rotation[State]{
			Name:      name,
			CycleTime: 60,
			Apply: func(p *combat.Processor[State]) {
				(&rotation{p: p, opts: opts, lateFoF: late}).run()
			},
		}
	}
	return []sim.Rotation[State]{
		mk("FoF early weave", false),
		mk("FoF late weave", true),
	}
}
