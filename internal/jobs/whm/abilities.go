package whm

import (
	"xivsim/internal/combat"
	"xivsim/internal/stats"
)

var (
	Glare = &combat.Ability{
		ID: 25859, Name: "Glare III", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 310, GcdLength: 2.5, CastTime: 1.5,
	}
	GlareIV = &combat.Ability{
		ID: 37009, Name: "Glare IV", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 640, GcdLength: 2.5,
	}
	Dia = &combat.Ability{
		ID: 16532, Name: "Dia", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 75, GcdLength: 2.5,
		Dot: &combat.Dot{ID: 1871, TickPotency: 75, Duration: 30},
	}
	AfflatusMisery = &combat.Ability{
		ID: 16535, Name: "Afflatus Misery", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, Potency: 1240, GcdLength: 2.5,
	}
	// Lily heals feed the Blood Lily and deal no damage.
	AfflatusRapture = &combat.Ability{
		ID: 16534, Name: "Afflatus Rapture", Kind: combat.KindGCD,
		AttackType: stats.AttackSpell, GcdLength: 2.5,
	}
	Assize = &combat.Ability{
		ID: 3571, Name: "Assize", Kind: combat.KindOGCD,
		AttackType: stats.AttackAbility, Potency: 400,
		Cooldown: &combat.Cooldown{Time: 40},
	}
)

var Catalog = []*combat.Ability{Glare, GlareIV, Dia, AfflatusMisery, AfflatusRapture, Assize}

const (
	lilyInterval   = 20.0
	liliesToMisery = 3
	sacredSight    = 3
	presenceCd     = 120.0
)
