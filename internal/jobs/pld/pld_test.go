package pld

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/sim"
	"xivsim/internal/stats"
)

func testStats(t *testing.T) *stats.ComputedStats {
	t.Helper()
	cs, err := stats.Compute(stats.Substats{
		Level: 90, Job: Job, MainStat: 3300, WeaponDamage: 132, WeaponDelay: 2.24,
		Crit: 2500, DirectHit: 1400, Determination: 1900,
		SkillSpeed: 420, SpellSpeed: 400, Tenacity: 600,
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

func TestComboGauge(t *testing.T) {
	g := newGauge()
	if g.CanUse(Atonement) || g.CanUse(Confiteor) || g.CanUse(GoringBlade) {
		t.Fatal("procs available on a fresh gauge")
	}
	if got := g.Adjust(RoyalAuthority).Potency; got != royalAuthorityNoCombo {
		t.Errorf("uncomboed Royal Authority potency %v", got)
	}
	for _, ab := range []*combat.Ability{FastBlade, RiotBlade} {
		g.Apply(g.Adjust(ab))
	}
	if got := g.Adjust(RoyalAuthority); got.Potency != 460 {
		t.Errorf("comboed Royal Authority potency %v", got.Potency)
	}
	g.Apply(g.Adjust(RoyalAuthority))
	s := g.Snapshot()
	if s.Combo != 0 || s.Atonement != 1 || !s.DivineMight {
		t.Fatalf("after combo %+v", s)
	}
	if !g.CanUse(Atonement) || g.CanUse(Supplication) {
		t.Error("Atonement chain out of order")
	}
	hs := g.Adjust(HolySpirit)
	if hs.CastTime != 0 || hs.Potency != 500 {
		t.Errorf("Divine Might Holy Spirit %+v", hs)
	}
	if HolySpirit.CastTime != 1.5 {
		t.Error("Adjust modified the catalog")
	}
	g.Apply(hs)
	if g.Snapshot().DivineMight {
		t.Error("Divine Might not consumed")
	}
	if g.Adjust(HolySpirit).CastTime == 0 {
		t.Error("Holy Spirit without Divine Might should be cast")
	}
}

func TestConfiteorChain(t *testing.T) {
	g := newGauge()
	g.Apply(Imperator)
	for _, ab := range confiteorChain {
		if !g.CanUse(ab) {
			t.Fatalf("%s not usable at %+v", ab.Name, g.Snapshot())
		}
		g.Apply(g.Adjust(ab))
	}
	s := g.Snapshot()
	if s.Confiteor != 0 || s.Requiescat != 0 || !s.BladeOfHonor {
		t.Fatalf("after chain %+v", s)
	}
	g.Apply(BladeOfHonor)
	if g.CanUse(BladeOfHonor) {
		t.Error("Blade of Honor usable twice")
	}
}

func simulate(t *testing.T, s sim.Settings) *sim.Report {
	t.Helper()
	rep, err := New().Simulate(context.Background(), testStats(t), s, sim.RunOptions{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestSimulateDefaults(t *testing.T) {
	rep := simulate(t, DefaultSettings())
	if len(rep.Candidates) != 2 {
		t.Fatalf("candidates %+v", rep.Candidates)
	}
	if rep.Dps.Expected <= 0 || rep.MainDps != rep.Dps.Expected {
		t.Errorf("dps %+v main %v", rep.Dps, rep.MainDps)
	}

	counts := map[string]int{}
	var fof []float64
	for _, row := range rep.Rows {
		counts[row.Ability]++
		if row.Ability == FightOrFlight.Name {
			fof = append(fof, row.T)
		}
	}
	// 360s fits six Fight or Flight windows.
	if counts[FightOrFlight.Name] != 6 {
		t.Errorf("%d Fight or Flight uses", counts[FightOrFlight.Name])
	}
	for i := 1; i < len(fof); i++ {
		if fof[i]-fof[i-1] < 60-1e-9 {
			t.Errorf("Fight or Flight reused after %v", fof[i]-fof[i-1])
		}
	}
	for _, name := range []string{GoringBlade.Name, BladeOfHonor.Name, Sepulchre.Name, CircleOfScorn.Name, "Attack"} {
		if counts[name] == 0 {
			t.Errorf("%s never used", name)
		}
	}
	if counts[GoringBlade.Name] > counts[FightOrFlight.Name] {
		t.Error("more Goring Blades than Fight or Flights")
	}
}

func TestLateWeaveLandsBeforeGcd(t *testing.T) {
	st := testStats(t)
	p, err := combat.NewProcessor[State](combat.Config{Stats: st, TotalTime: 120, Logger: zerolog.Nop()}, newGauge())
	if err != nil {
		t.Fatal(err)
	}
	(&rotation{p: p, opts: defaultOptions(), lateFoF: true}).run()

	recs := p.Records()
	seen := 0
	for i, rec := range recs {
		if rec.Ability != FightOrFlight {
			continue
		}
		seen++
		next := -1.0
		for _, later := range recs[i+1:] {
			if later.Ability.Kind == combat.KindGCD {
				next = later.Timestamp
				break
			}
		}
		if next < 0 {
			continue
		}
		if gap := next - rec.Timestamp; math.Abs(gap-combat.DefaultAnimationLock) > 1e-9 {
			t.Errorf("late Fight or Flight at %v, next GCD %v", rec.Timestamp, next)
		}
	}
	if seen != 2 {
		t.Errorf("%d Fight or Flight uses in 120s", seen)
	}
	if p.ClipTime() > 1e-9 {
		t.Errorf("late weave clipped %v", p.ClipTime())
	}
}

func TestInterveneOption(t *testing.T) {
	s := DefaultSettings()
	s.Options = sim.EncodeOptions(Options{UseIntervene: false, HoldOgcds: 10})
	rep := simulate(t, s)
	for _, row := range rep.Rows {
		if row.Ability == Intervene.Name {
			t.Fatal("Intervene used while disabled")
		}
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	a := simulate(t, DefaultSettings())
	b := simulate(t, DefaultSettings())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("reports differ between runs")
	}
}
