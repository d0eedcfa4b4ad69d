package sch

import (
	"xivsim/internal/combat"
	"xivsim/internal/sim"
)

const Job = "SCH"

func DefaultSettings() sim.Settings {
	return sim.Settings{
		PartyBuffs:   []string{"Chain Stratagem", "Divination", "Battle Litany", "Brotherhood"},
		TotalTime:    360,
		CooldownMode: combat.ModeDelay,
		Options:      sim.EncodeOptions(defaultOptions()),
	}
}

func New() sim.JobSim {
	return &sim.TimelineSim[State]{
		Name:      Job,
		Desc:      "Scholar: Broil casts, Biolysis upkeep, Aetherflow and Chain Stratagem",
		Defaults:  DefaultSettings(),
		NewGauge:  newGauge,
		Rotations: rotations,
	}
}
