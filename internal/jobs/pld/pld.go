package pld

import (
	"xivsim/internal/combat"
	"xivsim/internal/sim"
)

const Job = "PLD"

func DefaultSettings() sim.Settings {
	return sim.Settings{
		PartyBuffs:   []string{"Chain Stratagem", "Divination", "Battle Litany", "Brotherhood"},
		TotalTime:    360,
		CooldownMode: combat.ModeDelay,
		UseAutos:     true,
		Options:      sim.EncodeOptions(defaultOptions()),
	}
}

func New() sim.JobSim {
	return &sim.TimelineSim[State]{
		Name:      Job,
		Desc:      "Paladin: combo, Atonement and Confiteor chains, early or late Fight or Flight",
		Defaults:  DefaultSettings(),
		NewGauge:  newGauge,
		Rotations: rotations,
	}
}
