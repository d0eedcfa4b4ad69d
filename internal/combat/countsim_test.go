package combat

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

var (
	longBuff  = Buff{Name: "Long", Duration: 20, Effects: Effects{DmgIncrease: 0.1}}
	shortBuff = Buff{Name: "Short", Duration: 10, Effects: Effects{CritChanceIncrease: 0.1}}
)

func windowCounts(counts map[float64][]SkillCount) func(float64) []SkillCount {
	return func(d float64) []SkillCount { return counts[d] }
}

func TestBucketizeConservesCounts(t *testing.T) {
	totals := []SkillCount{{testGcd, 10}, {testOgcd, 4}}
	inWindow := windowCounts(map[float64][]SkillCount{
		20: {{testGcd, 8}, {testOgcd, 2}},
		10: {{testGcd, 4}, {testOgcd, 2}},
	})
	buckets, err := Bucketize(totals, inWindow, []Buff{shortBuff, longBuff})
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 3 {
		t.Fatalf("%d buckets", len(buckets))
	}
	wantDur := []float64{20, 10, 0}
	wantGcd := []int{4, 4, 2}
	wantOgcd := []int{0, 2, 2}
	for i, bk := range buckets {
		if bk.Duration != wantDur[i] {
			t.Errorf("bucket %d duration %v", i, bk.Duration)
		}
		if bk.Counts[0].Count != wantGcd[i] || bk.Counts[1].Count != wantOgcd[i] {
			t.Errorf("bucket %d counts %+v", i, bk.Counts)
		}
	}
	if len(buckets[0].Buffs) != 1 || len(buckets[1].Buffs) != 2 || len(buckets[2].Buffs) != 0 {
		t.Error("bucket buffs are not nested")
	}

	for k, total := range totals {
		sum := 0
		for _, bk := range buckets {
			sum += bk.Counts[k].Count
		}
		if sum != total.Count {
			t.Errorf("%s: buckets hold %d of %d uses", total.Ability.Name, sum, total.Count)
		}
	}
}

func TestBucketizeSharedDuration(t *testing.T) {
	other := Buff{Name: "Other", Duration: 20, Effects: Effects{DmgIncrease: 0.05}}
	totals := []SkillCount{{testGcd, 10}}
	buckets, err := Bucketize(totals, windowCounts(map[float64][]SkillCount{
		20: {{testGcd, 8}},
	}), []Buff{longBuff, other})
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 2 || len(buckets[0].Buffs) != 2 {
		t.Fatalf("buckets %+v", buckets)
	}
	if math.Abs(buckets[0].Effects.DmgMultiplier-1.1*1.05) > 1e-12 {
		t.Errorf("multiplier %v", buckets[0].Effects.DmgMultiplier)
	}
}

func TestBucketizeCountsRepeatedBuffOnce(t *testing.T) {
	totals := []SkillCount{{testGcd, 10}}
	buckets, err := Bucketize(totals, windowCounts(map[float64][]SkillCount{
		20: {{testGcd, 8}},
	}), []Buff{longBuff, longBuff})
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 2 || len(buckets[0].Buffs) != 1 {
		t.Fatalf("buckets %+v", buckets)
	}
	if math.Abs(buckets[0].Effects.DmgMultiplier-1.1) > 1e-12 {
		t.Errorf("multiplier %v", buckets[0].Effects.DmgMultiplier)
	}
}

func TestBucketizeRejectsGrowingCounts(t *testing.T) {
	totals := []SkillCount{{testGcd, 10}}
	_, err := Bucketize(totals, windowCounts(map[float64][]SkillCount{
		20: {{testGcd, 4}},
		10: {{testGcd, 5}},
	}), []Buff{longBuff, shortBuff})
	if errors.Cause(err) != ErrCountsNotNested {
		t.Fatalf("err = %v", err)
	}
	_, err = Bucketize(totals, windowCounts(map[float64][]SkillCount{
		20: {{testGcd, 11}},
	}), []Buff{longBuff})
	if errors.Cause(err) != ErrCountsNotNested {
		t.Fatalf("err = %v", err)
	}
}

func TestCountSimRun(t *testing.T) {
	st := testStats(t)
	cs := CountSim{
		Stats:     st,
		CycleTime: 120,
		Totals:    []SkillCount{{testGcd, 46}, {testDot, 2}},
		InWindow: windowCounts(map[float64][]SkillCount{
			20: {{testGcd, 8}},
		}),
		Buffs: []Buff{longBuff},
	}
	res, err := cs.Run("counts")
	if err != nil {
		t.Fatal(err)
	}
	plain := AbilityDamage(st, testGcd, NoBuffs()).Expected
	buffed := AbilityDamage(st, testGcd, Combine(longBuff)).Expected
	dot := AbilityDamage(st, testDot, NoBuffs()).Expected + 10*DotTick(st, testDot, NoBuffs()).Value().Expected
	want := 8*buffed + 38*plain + 2*dot
	if math.Abs(res.TotalDamage.Expected-want) > 1e-6 {
		t.Errorf("total %v, want %v", res.TotalDamage.Expected, want)
	}
	if math.Abs(res.Dps.Expected-want/120) > 1e-6 {
		t.Errorf("dps %v", res.Dps.Expected)
	}
	if got, want := res.UnbuffedPps, (46*200+2*100+2*10*50)/120.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("unbuffed pps %v, want %v", got, want)
	}

	if _, err := (CountSim{Stats: st}).Run("bad"); err == nil {
		t.Error("zero cycle time accepted")
	}
}
