package pld

import (
	"xivsim/internal/combat"
	"xivsim/internal/stats"
)

var fofBuff = combat.Buff{
	Name:     "Fight or Flight",
	Job:      "PLD",
	Duration: 20,
	SelfOnly: true,
	Effects:  combat.Effects{DmgIncrease: 0.25},
}

func weaponskill(id int, name string, potency float64) *combat.Ability {
	return &combat.Ability{
		ID: id, Name: name, Kind: combat.KindGCD,
		AttackType: stats.AttackWeaponskill, Potency: potency, GcdLength: 2.5,
	}
}

func spell(id int, name string, potency float64) *combat.Ability {
	return &combat.Ability{
		ID: id, Name: name, Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: potency, GcdLength: 2.5,
	}
}

func ability(id int, name string, potency, cooldown float64) *combat.Ability {
	ab := &combat.Ability{
		ID: id, Name: name, Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility, Potency: potency,
	}
	if cooldown > 0 {
		ab.Cooldown = &combat.Cooldown{Time: cooldown}
	}
	return ab
}

// Potencies are the combo / buffed values; the gauge lowers them when the
// condition is not met.
var (
	FastBlade      = weaponskill(9, "Fast Blade", 220)
	RiotBlade      = weaponskill(15, "Riot Blade", 330)
	RoyalAuthority = weaponskill(3539, "Royal Authority", 460)
	Atonement      = weaponskill(16460, "Atonement", 460)
	Supplication   = weaponskill(36918, "Supplication", 500)
	Sepulchre      = weaponskill(36919, "Sepulchre", 540)
	GoringBlade    = weaponskill(3538, "Goring Blade", 700)

	HolySpirit   = &combat.Ability{ID: 7384, Name: "Holy Spirit", Kind: combat.KindGCD, AttackType: stats.AttackSpell, Potency: 500, GcdLength: 2.5, CastTime: 1.5}
	Confiteor    = spell(16459, "Confiteor", 500)
	BladeOfFaith = spell(25748, "Blade of Faith", 260)
	BladeOfTruth = spell(25749, "Blade of Truth", 380)
	BladeOfValor = spell(25750, "Blade of Valor", 500)

	FightOrFlight = &combat.Ability{
		ID: 20, Name: "Fight or Flight", Kind: combat.KindOGCD,
		AttackType:     stats.AttackAbility,
		Cooldown:       &combat.Cooldown{Time: 60},
		ActivatesBuffs: []combat.Buff{fofBuff},
	}
	CircleOfScorn = &combat.Ability{
		ID: 23, Name: "Circle of Scorn", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility, Potency: 140,
		Cooldown: &combat.Cooldown{Time: 30},
		Dot:      &combat.Dot{ID: 248, TickPotency: 30, Duration: 15},
	}
	Expiacion    = ability(25747, "Expiacion", 450, 30)
	Imperator    = ability(36921, "Imperator", 580, 60)
	BladeOfHonor = ability(36922, "Blade of Honor", 1000, 0)
	Intervene    = &combat.Ability{
		ID: 16461, Name: "Intervene", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility, Potency: 150,
		Cooldown: &combat.Cooldown{Time: 30, MaxCharges: 2},
	}

	confiteorChain = []*combat.Ability{Confiteor, BladeOfFaith, BladeOfTruth, BladeOfValor}
	atonementChain = []*combat.Ability{Atonement, Supplication, Sepulchre}
)

const (
	riotBladeNoCombo      = 140
	royalAuthorityNoCombo = 140
	holySpiritRequiescat  = 650
	holySpiritUnbuffed    = 350
)

// Catalog lists every Paladin ability the rotations use.
var Catalog = []*combat.Ability{
	FastBlade, RiotBlade, RoyalAuthority, Atonement, Supplication, Sepulchre,
	GoringBlade, HolySpirit, Confiteor, BladeOfFaith, BladeOfTruth, BladeOfValor,
	FightOrFlight, CircleOfScorn, Expiacion, Imperator, BladeOfHonor, Intervene,
}
