package combat

import "sort"

// Effects of a single buff. DmgIncrease and the chance fields are fractions
// (0.1 is +10%); Haste is a percentage.
type Effects struct {
	DmgIncrease        float64 `json:"dmg_increase,omitempty"`
	CritChanceIncrease float64 `json:"crit_chance_increase,omitempty"`
	DhitChanceIncrease float64 `json:"dhit_chance_increase,omitempty"`
	Haste              float64 `json:"haste,omitempty"`
	ForceCrit          bool    `json:"force_crit,omitempty"`
	ForceDhit          bool    `json:"force_dhit,omitempty"`
}

type Buff struct {
	Name     string  `json:"name"`
	Job      string  `json:"job,omitempty"`
	Duration float64 `json:"duration"`
	// Cooldown between activations for party buffs scheduled by the processor.
	Cooldown float64 `json:"cooldown,omitempty"`
	SelfOnly bool    `json:"self_only,omitempty"`
	Effects  Effects `json:"effects"`
}

// CombinedEffects is the fold of every buff active at one instant.
type CombinedEffects struct {
	DmgMultiplier      float64 `json:"dmg_multiplier"`
	CritChanceIncrease float64 `json:"crit_chance_increase"`
	DhitChanceIncrease float64 `json:"dhit_chance_increase"`
	Haste              float64 `json:"haste"`
	ForceCrit          bool    `json:"force_crit"`
	ForceDhit          bool    `json:"force_dhit"`
}

func NoBuffs() CombinedEffects {
	return CombinedEffects{DmgMultiplier: 1}
}

// Combine folds buffs into one effect: damage multipliers multiply, chance
// and haste fields add. The fold runs over the buffs sorted by name so the
// floating point result does not depend on activation order.
func Combine(buffs ...Buff) CombinedEffects {
	sorted := make([]Buff, len(buffs))
	copy(sorted, buffs)
	sort.SliceStable(sorted, func(i, k int) bool { return sorted[i].Name < sorted[k].Name })

	out := NoBuffs()
	for _, b := range sorted {
		out.DmgMultiplier *= 1 + b.Effects.DmgIncrease
		out.CritChanceIncrease += b.Effects.CritChanceIncrease
		out.DhitChanceIncrease += b.Effects.DhitChanceIncrease
		out.Haste += b.Effects.Haste
		out.ForceCrit = out.ForceCrit || b.Effects.ForceCrit
		out.ForceDhit = out.ForceDhit || b.Effects.ForceDhit
	}
	return out
}
