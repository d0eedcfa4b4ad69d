package whm

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/sim"
	"xivsim/internal/stats"
)

func testStats(t *testing.T) *stats.ComputedStats {
	t.Helper()
	cs, err := stats.Compute(stats.Substats{
		Level: 90, Job: Job, MainStat: 3350, WeaponDamage: 132, WeaponDelay: 3.44,
		Crit: 2400, DirectHit: 1100, Determination: 2000,
		SkillSpeed: 400, SpellSpeed: 400, Tenacity: 400,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestCatalogIsValid(t *testing.T) {
	if err := combat.ValidateCatalog(Catalog...); err != nil {
		t.Fatal(err)
	}
}

func TestPlan(t *testing.T) {
	pl := newPlan(testStats(t), 120)
	want := plan{gcds: 48, dia: 4, glareIV: 3, misery: 2, rapture: 6, assize: 3}
	if pl != want {
		t.Fatalf("plan %+v, want %+v", pl, want)
	}
	if pl.glare() != 33 {
		t.Errorf("%d Glare III", pl.glare())
	}
	sum := 0
	for _, c := range pl.totals() {
		if c.Ability.Kind == combat.KindGCD {
			sum += c.Count
		}
	}
	if sum != pl.gcds {
		t.Errorf("%d GCDs planned for %d slots", sum, pl.gcds)
	}
}

func TestSimulateDefaults(t *testing.T) {
	var progress []string
	rep, err := New().Simulate(context.Background(), testStats(t), DefaultSettings(), sim.RunOptions{
		Logger:   zerolog.Nop(),
		Progress: func(_, _ int, c sim.Candidate) { progress = append(progress, c.Name) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Rotation != "Misery in burst" {
		t.Errorf("best %q", rep.Rotation)
	}
	if len(progress) != 2 || len(rep.Candidates) != 2 {
		t.Fatalf("progress %v candidates %v", progress, rep.Candidates)
	}
	// Every default buff lasts 20s: one window bucket and the rest.
	if len(rep.Buckets) != 2 {
		t.Fatalf("%d buckets", len(rep.Buckets))
	}
	burst, rest := rep.Buckets[0], rep.Buckets[1]
	if burst.Duration != 20 || len(burst.Buffs) != 5 || rest.Duration != 0 {
		t.Errorf("burst %v/%d rest %v", burst.Duration, len(burst.Buffs), rest.Duration)
	}

	pl := newPlan(testStats(t), 120)
	got := map[int]int{}
	for _, bk := range rep.Buckets {
		for _, c := range bk.Counts {
			got[c.Ability.ID] += c.Count
		}
	}
	for _, c := range pl.totals() {
		if got[c.Ability.ID] != c.Count {
			t.Errorf("%s: %d across buckets, %d planned", c.Ability.Name, got[c.Ability.ID], c.Count)
		}
	}
	for _, c := range burst.Counts {
		if c.Ability == AfflatusMisery && c.Count != 1 {
			t.Errorf("%d Misery in the burst", c.Count)
		}
	}
}

func TestBadCycleTimeFallsBack(t *testing.T) {
	s := DefaultSettings()
	s.Options = sim.EncodeOptions(Options{CycleTime: -5})
	cands := candidates(testStats(t), s, zerolog.Nop())
	if cands[0].Sim.CycleTime != 120 {
		t.Errorf("cycle time %v", cands[0].Sim.CycleTime)
	}
}
