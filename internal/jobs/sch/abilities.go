package sch

import (
	"xivsim/internal/combat"
	"xivsim/internal/stats"
)

var chainBuff = combat.Buff{
	Name:     "Chain Stratagem",
	Job:      "SCH",
	Duration: 20,
	Cooldown: 120,
	Effects:  combat.Effects{CritChanceIncrease: 0.10},
}

var (
	Broil = &combat.Ability{
		ID: 25865, Name: "Broil IV", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 310, GcdLength: 2.5, CastTime: 1.5,
	}
	Ruin = &combat.Ability{
		ID: 17870, Name: "Ruin II", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 220, GcdLength: 2.5,
	}
	Biolysis = &combat.Ability{
		ID: 16540, Name: "Biolysis", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, GcdLength: 2.5,
		Dot: &combat.Dot{ID: 1895, TickPotency: 80, Duration: 30},
	}

	Aetherflow = &combat.Ability{
		ID: 166, Name: "Aetherflow", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility,
		Cooldown:   &combat.Cooldown{Time: 60},
	}
	EnergyDrain = &combat.Ability{
		ID: 167, Name: "Energy Drain", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility, Potency: 100,
		Cooldown: &combat.Cooldown{Time: 1},
	}
	Dissipation = &combat.Ability{
		ID: 3587, Name: "Dissipation", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility,
		Cooldown:   &combat.Cooldown{Time: 180},
	}
	ChainStratagem = &combat.Ability{
		ID: 7436, Name: "Chain Stratagem", Kind: combat.KindOGCD,
		AttackType:     stats.AttackAbility,
		Cooldown:       &combat.Cooldown{Time: 120},
		ActivatesBuffs: []combat.Buff{chainBuff},
	}
	BanefulImpaction = &combat.Ability{
		ID: 37012, Name: "Baneful Impaction", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility,
		Dot:        &combat.Dot{ID: 3883, TickPotency: 140, Duration: 15},
	}
)

var Catalog = []*combat.Ability{
	Broil, Ruin, Biolysis, Aetherflow, EnergyDrain, Dissipation, ChainStratagem, BanefulImpaction,
}
