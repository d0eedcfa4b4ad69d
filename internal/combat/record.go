package combat

import "xivsim/internal/xivmath"

// DotUsage is the damage-over-time part of a record. Ticks is settled when
// the run's result is assembled: a later application of the same DoT or the
// end of the run cuts it short.
type DotUsage struct {
	ID          int                        `json:"id"`
	TickPotency float64                    `json:"tick_potency"`
	Tick        HitProfile                 `json:"tick"`
	TickDamage  xivmath.ValueWithDeviation `json:"tick_damage"`
	MaxTicks    int                        `json:"max_ticks"`
	Ticks       int                        `json:"ticks"`
}

func (d *DotUsage) Damage() xivmath.ValueWithDeviation {
	return xivmath.RepeatIndependent(d.TickDamage, float64(d.Ticks))
}

// UsedAbility is one row of the use log. Special rows carry a note and no
// ability.
type UsedAbility[G any] struct {
	Ability   *Ability
	Timestamp float64
	Buffs     []Buff
	Effects   CombinedEffects
	Gauge     G
	Hit       HitProfile
	Direct    xivmath.ValueWithDeviation
	Dot       *DotUsage

	Special bool
	Note    string
}

func (u *UsedAbility[G]) Total() xivmath.ValueWithDeviation {
	if u.Dot == nil {
		return u.Direct
	}
	return xivmath.AddValues(u.Direct, u.Dot.Damage())
}

// Result is the outcome of one rotation.
type Result[G any] struct {
	Label       string
	CycleTime   float64
	TotalTime   float64
	TotalDamage xivmath.ValueWithDeviation
	Dps         xivmath.ValueWithDeviation
	MainDps     float64
	UnbuffedPps float64
	ClipTime    float64
	Records     []UsedAbility[G]
}

// AbilityCounts tallies non-special records by ability name.
func (r *Result[G]) AbilityCounts() map[string]int {
	out := map[string]int{}
	for i := range r.Records {
		if r.Records[i].Special {
			continue
		}
		out[r.Records[i].Ability.Name]++
	}
	return out
}
