package sch

import (
	"math"

	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/sim"
)

type Options struct {
	// Dissipation trades the fairy for three more Energy Drains.
	Dissipation bool `json:"dissipation"`
}

func defaultOptions() Options {
	return Options{Dissipation: true}
}

type rotation struct {
	p    *combat.Processor[State]
	opts Options
	// refresh is how early Biolysis is reapplied.
	refresh float64
	bioAt   float64
}

func (r *rotation) nextGcd() *combat.Ability {
	end := r.bioAt + Biolysis.Dot.Duration
	if r.p.NextGcdTime()+r.refresh >= end-1e-9 && r.p.RemainingGcdTime() > combat.DotTickInterval {
		return Biolysis
	}
	return Broil
}

func (r *rotation) nextOgcd() *combat.Ability {
	s := r.p.GaugeState()
	switch {
	case r.p.IsReady(ChainStratagem):
		return ChainStratagem
	case s.ImpactImminent:
		return BanefulImpaction
	case s.Aetherflow == 0 && r.p.IsReady(Aetherflow):
		return Aetherflow
	case s.Aetherflow == 0 && r.opts.Dissipation && r.p.IsReady(Dissipation) && r.p.CooldownRemaining(Aetherflow) > 15:
		return Dissipation
	case s.Aetherflow > 0 && r.p.IsReady(EnergyDrain):
		return EnergyDrain
	}
	return nil
}

func (r *rotation) weave() {
	for i := 0; i < 2; i++ {
		ab := r.nextOgcd()
		if ab == nil || !r.p.CanUseWithoutClipping(ab) {
			return
		}
		r.p.UseOgcd(ab)
	}
}

func (r *rotation) run() {
	r.bioAt = math.Inf(-1)
	r.p.RemainingCycles(func(int) {
		ab := r.nextGcd()
		if r.p.UseGcd(ab) && ab == Biolysis {
			r.bioAt = r.p.Records()[len(r.p.Records())-1].Timestamp
		}
		r.weave()
	})
}

func rotations(s sim.Settings, log zerolog.Logger) []sim.Rotation[State] {
	opts := sim.DecodeOptions(s.Options, defaultOptions(), log)
	mk := func(name string, refresh float64) sim.Rotation[State] {
		return sim.Rotation[State]{
			Name:      name,
			CycleTime: 120,
			Apply: func(p *combat.Processor[State]) {
				(&rotation{p: p, opts: opts, refresh: refresh}).run()
			},
		}
	}
	return []sim.Rotation[State]{
		mk("Biolysis on expiry", 0),
		mk("Biolysis one tick early", combat.DotTickInterval),
	}
}
