package combat

import (
	"math/rand"

	"xivsim/internal/stats"
	"xivsim/internal/xivmath"
)

// HitProfile describes one hit: the damage before crit and direct hit, and
// the two independent rolls applied on top of it.
type HitProfile struct {
	Base       float64 `json:"base"`
	CritChance float64 `json:"crit_chance"`
	CritMulti  float64 `json:"crit_multi"`
	DhitChance float64 `json:"dhit_chance"`
	DhitMulti  float64 `json:"dhit_multi"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func newHitProfile(st *stats.ComputedStats, base float64, eff CombinedEffects, autoCrit, autoDh bool) HitProfile {
	hp := HitProfile{
		Base:       base * eff.DmgMultiplier,
		CritChance: clamp01(st.CritChance + eff.CritChanceIncrease),
		CritMulti:  st.CritMulti,
		DhitChance: clamp01(st.DhitChance + eff.DhitChanceIncrease),
		DhitMulti:  st.DhitMulti,
	}
	// Guaranteed crits and direct hits turn rate buffs into flat damage.
	if autoCrit || eff.ForceCrit {
		hp.Base *= 1 + eff.CritChanceIncrease*(st.CritMulti-1)
		hp.CritChance = 1
	}
	if autoDh || eff.ForceDhit {
		hp.Base *= 1 + eff.DhitChanceIncrease*(st.DhitMulti-1)
		hp.DhitMulti += st.AutoDhBonus
		hp.DhitChance = 1
	}
	return hp
}

func (hp HitProfile) Value() xivmath.ValueWithDeviation {
	if hp.Base == 0 {
		return xivmath.Fixed(0)
	}
	crit := xivmath.Bernoulli(hp.CritChance, hp.CritMulti, 1)
	dhit := xivmath.Bernoulli(hp.DhitChance, hp.DhitMulti, 1)
	return xivmath.MultiplyFixed(xivmath.MultiplyIndependent(crit, dhit), hp.Base)
}

// Roll draws one outcome of the hit.
func (hp HitProfile) Roll(rng *rand.Rand) float64 {
	d := hp.Base
	if rng.Float64() < hp.CritChance {
		d *= hp.CritMulti
	}
	if rng.Float64() < hp.DhitChance {
		d *= hp.DhitMulti
	}
	return d
}

// DirectHit prices the direct part of ab under eff.
func DirectHit(st *stats.ComputedStats, ab *Ability, eff CombinedEffects) HitProfile {
	base := st.BaseDamage(ab.Potency, ab.AttackType)
	return newHitProfile(st, base, eff, ab.AutoCrit, ab.AutoDh)
}

// DotTick prices one tick of ab's damage over time, snapshotting eff.
func DotTick(st *stats.ComputedStats, ab *Ability, eff CombinedEffects) HitProfile {
	if ab.Dot == nil {
		return HitProfile{}
	}
	base := st.DotTickDamage(ab.Dot.TickPotency, ab.AttackType)
	return newHitProfile(st, base, eff, false, false)
}

func AbilityDamage(st *stats.ComputedStats, ab *Ability, eff CombinedEffects) xivmath.ValueWithDeviation {
	return DirectHit(st, ab, eff).Value()
}
