package combat

import (
	"sort"

	"github.com/pkg/errors"

	"xivsim/internal/stats"
	"xivsim/internal/xivmath"
)

var ErrCountsNotNested = errors.New("window counts are not nested")

type SkillCount struct {
	Ability *Ability `json:"ability"`
	Count   int      `json:"count"`
}

// Bucket holds the uses that land while exactly Buffs are running. Duration
// is the window length the bucket was cut at; zero is the unbuffed rest of
// the cycle.
type Bucket struct {
	Duration float64                    `json:"duration"`
	Buffs    []Buff                     `json:"buffs"`
	Effects  CombinedEffects            `json:"effects"`
	Counts   []SkillCount               `json:"counts"`
	Damage   xivmath.ValueWithDeviation `json:"damage"`
}

func countOf(counts []SkillCount, id int) int {
	n := 0
	for _, c := range counts {
		if c.Ability != nil && c.Ability.ID == id {
			n += c.Count
		}
	}
	return n
}

// uniqueBuffs keeps the first buff of every name.
func uniqueBuffs(buffs []Buff) []Buff {
	seen := map[string]bool{}
	out := make([]Buff, 0, len(buffs))
	for _, b := range buffs {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b)
	}
	return out
}

// Bucketize splits the per-cycle totals across buff windows. inWindow returns
// how many of each ability fit in a window of the given length starting with
// the burst; buffs sharing a duration share a bucket. Walking from the
// longest window to the shortest, each bucket keeps only the uses that fit
// its window but not the next shorter one, and the uses outside every window
// end in an unbuffed bucket. Counts that grow as the window shrinks are
// rejected with ErrCountsNotNested. A buff listed twice counts once, the same
// way a refresh does on the timeline.
func Bucketize(totals []SkillCount, inWindow func(duration float64) []SkillCount, buffs []Buff) ([]Bucket, error) {
	buffs = uniqueBuffs(buffs)
	var durations []float64
	seen := map[float64]bool{}
	for _, b := range buffs {
		if b.Duration <= 0 || seen[b.Duration] {
			continue
		}
		seen[b.Duration] = true
		durations = append(durations, b.Duration)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(durations)))

	window := make([][]int, len(durations))
	for i, d := range durations {
		counts := inWindow(d)
		window[i] = make([]int, len(totals))
		for k, t := range totals {
			window[i][k] = countOf(counts, t.Ability.ID)
		}
	}

	var out []Bucket
	rest := Bucket{Effects: NoBuffs()}
	for k, t := range totals {
		n := t.Count
		if len(durations) > 0 {
			n -= window[0][k]
		}
		if n < 0 {
			return nil, errors.Wrapf(ErrCountsNotNested, "%s: %d uses in a %vs window but %d in total",
				t.Ability.Name, window[0][k], durations[0], t.Count)
		}
		rest.Counts = append(rest.Counts, SkillCount{Ability: t.Ability, Count: n})
	}

	for i, d := range durations {
		var active []Buff
		for _, b := range buffs {
			if b.Duration >= d {
				active = append(active, b)
			}
		}
		bk := Bucket{Duration: d, Buffs: active, Effects: Combine(active...)}
		for k, t := range totals {
			n := window[i][k]
			if i+1 < len(window) {
				n -= window[i+1][k]
			}
			if n < 0 {
				return nil, errors.Wrapf(ErrCountsNotNested, "%s: %d uses in a %vs window but %d in a %vs window",
					t.Ability.Name, window[i+1][k], durations[i+1], window[i][k], d)
			}
			bk.Counts = append(bk.Counts, SkillCount{Ability: t.Ability, Count: n})
		}
		out = append(out, bk)
	}
	return append(out, rest), nil
}

// CountSim describes one count based run.
type CountSim struct {
	Stats     *stats.ComputedStats
	CycleTime float64
	Totals    []SkillCount
	InWindow  func(duration float64) []SkillCount
	Buffs     []Buff
	StdDevs   float64
}

type CountResult struct {
	Label       string                     `json:"label"`
	CycleTime   float64                    `json:"cycle_time"`
	Buckets     []Bucket                   `json:"buckets"`
	TotalDamage xivmath.ValueWithDeviation `json:"total_damage"`
	Dps         xivmath.ValueWithDeviation `json:"dps"`
	MainDps     float64                    `json:"main_dps"`
	UnbuffedPps float64                    `json:"unbuffed_pps"`
}

// Run buckets the counts and prices every bucket under its combined buffs.
// DoTs are counted at their full duration.
func (cs CountSim) Run(label string) (*CountResult, error) {
	if cs.Stats == nil {
		return nil, errors.New("count sim needs computed stats")
	}
	if cs.CycleTime <= 0 {
		return nil, errors.Errorf("cycle time must be positive, got %v", cs.CycleTime)
	}
	buckets, err := Bucketize(cs.Totals, cs.InWindow, cs.Buffs)
	if err != nil {
		return nil, err
	}

	total := xivmath.Fixed(0)
	potency := 0.0
	for i := range buckets {
		bk := &buckets[i]
		dmg := xivmath.Fixed(0)
		for _, c := range bk.Counts {
			if c.Count == 0 {
				continue
			}
			ab := c.Ability
			n := float64(c.Count)
			dmg = xivmath.AddValues(dmg, xivmath.RepeatIndependent(AbilityDamage(cs.Stats, ab, bk.Effects), n))
			potency += cs.Stats.ScaledPotency(ab.Potency, ab.AttackType) * n
			if ab.Dot != nil {
				ticks := n * float64(ab.Dot.MaxTicks())
				dmg = xivmath.AddValues(dmg, xivmath.RepeatIndependent(DotTick(cs.Stats, ab, bk.Effects).Value(), ticks))
				potency += cs.Stats.ScaledPotency(ab.Dot.TickPotency, ab.AttackType) * ticks
			}
		}
		bk.Damage = dmg
		total = xivmath.AddValues(total, dmg)
	}

	dps := xivmath.MultiplyFixed(total, 1/cs.CycleTime)
	return &CountResult{
		Label:       label,
		CycleTime:   cs.CycleTime,
		Buckets:     buckets,
		TotalDamage: total,
		Dps:         dps,
		MainDps:     xivmath.ApplyStdDev(dps, cs.StdDevs),
		UnbuffedPps: potency / cs.CycleTime,
	}, nil
}
