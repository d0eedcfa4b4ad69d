package pld

import "xivsim/internal/combat"

// State is the Paladin gauge after a use.
type State struct {
	// Combo is 1 after Fast Blade and 2 after Riot Blade.
	Combo int `json:"combo"`
	// Atonement is the next step of the Atonement chain, 0 when none is ready.
	Atonement    int  `json:"atonement"`
	DivineMight  bool `json:"divine_might"`
	Requiescat   int  `json:"requiescat"`
	Confiteor    int  `json:"confiteor"`
	BladeOfHonor bool `json:"blade_of_honor"`
	GoringReady  bool `json:"goring_ready"`
}

type gauge struct {
	s State
}

func newGauge() combat.Gauge[State] {
	return &gauge{}
}

func (g *gauge) CanUse(ab *combat.Ability) bool {
	switch ab {
	case Atonement, Supplication, Sepulchre:
		return g.s.Atonement > 0 && atonementChain[g.s.Atonement-1] == ab
	case Confiteor, BladeOfFaith, BladeOfTruth, BladeOfValor:
		return g.s.Confiteor > 0 && confiteorChain[g.s.Confiteor-1] == ab
	case GoringBlade:
		return g.s.GoringReady
	case BladeOfHonor:
		return g.s.BladeOfHonor
	}
	return true
}

func (g *gauge) Adjust(ab *combat.Ability) *combat.Ability {
	switch {
	case ab == RiotBlade && g.s.Combo != 1:
		return withPotency(ab, riotBladeNoCombo)
	case ab == RoyalAuthority && g.s.Combo != 2:
		return withPotency(ab, royalAuthorityNoCombo)
	case ab == HolySpirit:
		cp := *ab
		switch {
		case g.s.Requiescat > 0:
			cp.Potency = holySpiritRequiescat
			cp.CastTime = 0
		case g.s.DivineMight:
			cp.CastTime = 0
		default:
			cp.Potency = holySpiritUnbuffed
		}
		return &cp
	}
	return ab
}

func withPotency(ab *combat.Ability, potency float64) *combat.Ability {
	cp := *ab
	cp.Potency = potency
	return &cp
}

func (g *gauge) Apply(ab *combat.Ability) {
	s := &g.s
	switch ab.ID {
	case FastBlade.ID:
		s.Combo = 1
	case RiotBlade.ID:
		if s.Combo == 1 {
			s.Combo = 2
		} else {
			s.Combo = 0
		}
	case RoyalAuthority.ID:
		if s.Combo == 2 {
			s.Atonement = 1
			s.DivineMight = true
		}
		s.Combo = 0
	case Atonement.ID, Supplication.ID:
		s.Atonement++
	case Sepulchre.ID:
		s.Atonement = 0
	case HolySpirit.ID:
		if s.Requiescat > 0 {
			s.Requiescat--
		} else {
			s.DivineMight = false
		}
	case Confiteor.ID, BladeOfFaith.ID, BladeOfTruth.ID, BladeOfValor.ID:
		if s.Requiescat > 0 {
			s.Requiescat--
		}
		s.Confiteor++
		if s.Confiteor > len(confiteorChain) {
			s.Confiteor = 0
			s.BladeOfHonor = true
		}
	case Imperator.ID:
		s.Requiescat = 4
		s.Confiteor = 1
	case FightOrFlight.ID:
		s.GoringReady = true
	case GoringBlade.ID:
		s.GoringReady = false
	case BladeOfHonor.ID:
		s.BladeOfHonor = false
	}
}

func (g *gauge) Snapshot() State {
	return g.s
}
