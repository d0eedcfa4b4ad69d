package combat

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"xivsim/internal/stats"
)

func testStats(t *testing.T) *stats.ComputedStats {
	t.Helper()
	cs, err := stats.Compute(stats.Substats{
		Level:         90,
		Job:           "PLD",
		MainStat:      390,
		WeaponDamage:  100,
		WeaponDelay:   3,
		Crit:          400,
		DirectHit:     400,
		Determination: 390,
		SkillSpeed:    400,
		SpellSpeed:    400,
		Tenacity:      400,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func testProcessor(t *testing.T, mode CooldownMode, total float64) (*Processor[NoGauge], *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewProcessor[NoGauge](Config{
		Stats:        testStats(t),
		TotalTime:    total,
		CooldownMode: mode,
		Logger:       zerolog.New(&buf),
	}, NoGauge{})
	if err != nil {
		t.Fatal(err)
	}
	return p, &buf
}

var (
	testGcd = &Ability{
		ID: 1, Name: "Fast Blade", Kind: KindGCD,
		AttackType: stats.AttackWeaponskill, Potency: 200, GcdLength: 2.5,
	}
	testOgcd = &Ability{
		ID: 2, Name: "Spirits Within", Kind: KindOGCD,
		AttackType: stats.AttackAbility, Potency: 270,
		Cooldown: &Cooldown{Time: 60},
	}
	testFreeOgcd = &Ability{
		ID: 3, Name: "Free Weave", Kind: KindOGCD,
		AttackType: stats.AttackAbility, Potency: 100,
	}
	testCharges = &Ability{
		ID: 4, Name: "Intervene", Kind: KindOGCD,
		AttackType: stats.AttackAbility, Potency: 150,
		Cooldown: &Cooldown{Time: 30, MaxCharges: 2},
	}
	testDot = &Ability{
		ID: 5, Name: "Goring Blade", Kind: KindGCD,
		AttackType: stats.AttackWeaponskill, Potency: 100, GcdLength: 2.5,
		Dot: &Dot{ID: 1, TickPotency: 50, Duration: 30},
	}
	testBuffSkill = &Ability{
		ID: 6, Name: "Fight or Flight", Kind: KindOGCD,
		AttackType: stats.AttackAbility,
		Cooldown:   &Cooldown{Time: 60},
		ActivatesBuffs: []Buff{{
			Name: "Fight or Flight", Duration: 20, SelfOnly: true,
			Effects: Effects{DmgIncrease: 0.25},
		}},
	}
)
