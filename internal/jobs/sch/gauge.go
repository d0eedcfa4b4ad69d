package sch

import "xivsim/internal/combat"

const maxAetherflow = 3

type State struct {
	Aetherflow     int  `json:"aetherflow"`
	ImpactImminent bool `json:"impact_imminent"`
}

type gauge struct {
	s State
}

func newGauge() combat.Gauge[State] {
	return &gauge{}
}

func (g *gauge) CanUse(ab *combat.Ability) bool {
	switch ab.ID {
	case EnergyDrain.ID:
		return g.s.Aetherflow > 0
	case BanefulImpaction.ID:
		return g.s.ImpactImminent
	}
	return true
}

func (g *gauge) Adjust(ab *combat.Ability) *combat.Ability { return ab }

func (g *gauge) Apply(ab *combat.Ability) {
	switch ab.ID {
	case Aetherflow.ID, Dissipation.ID:
		g.s.Aetherflow = maxAetherflow
	case EnergyDrain.ID:
		g.s.Aetherflow--
	case ChainStratagem.ID:
		g.s.ImpactImminent = true
	case BanefulImpaction.ID:
		g.s.ImpactImminent = false
	}
}

func (g *gauge) Snapshot() State { return g.s }
