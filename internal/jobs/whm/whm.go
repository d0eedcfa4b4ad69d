package whm

import (
	"math"

	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/sim"
	"xivsim/internal/stats"
)

const Job = "WHM"

type Options struct {
	// CycleTime is the length of one modelled cycle; it should be a
	// multiple of the two minute burst.
	CycleTime float64 `json:"cycle_time"`
}

func defaultOptions() Options {
	return Options{CycleTime: 120}
}

func DefaultSettings() sim.Settings {
	return sim.Settings{
		PartyBuffs:   []string{"Chain Stratagem", "Divination", "Battle Litany", "Brotherhood", "Battle Voice"},
		TotalTime:    120,
		CooldownMode: combat.ModeDelay,
		Options:      sim.EncodeOptions(defaultOptions()),
	}
}

// plan is the GCD budget of one cycle.
type plan struct {
	gcds, dia, glareIV, misery, rapture, assize int
}

func newPlan(st *stats.ComputedStats, cycle float64) plan {
	gcd := st.Gcd(Glare.GcdLength, Glare.AttackType, 0)
	bursts := int(math.Floor(cycle/presenceCd + 1e-9))
	lilies := int(math.Floor(cycle/lilyInterval + 1e-9))
	misery := lilies / liliesToMisery
	return plan{
		gcds:    int(math.Floor(cycle/gcd + 1e-9)),
		dia:     int(math.Ceil(cycle/Dia.Dot.Duration - 1e-9)),
		glareIV: bursts * sacredSight,
		misery:  misery,
		rapture: misery * liliesToMisery,
		assize:  int(math.Ceil(cycle/Assize.Cooldown.Time - 1e-9)),
	}
}

func (pl plan) glare() int {
	if n := pl.gcds - pl.dia - pl.glareIV - pl.misery - pl.rapture; n > 0 {
		return n
	}
	return 0
}

func (pl plan) totals() []combat.SkillCount {
	return []combat.SkillCount{
		{Ability: Glare, Count: pl.glare()},
		{Ability: GlareIV, Count: pl.glareIV},
		{Ability: Dia, Count: pl.dia},
		{Ability: AfflatusMisery, Count: pl.misery},
		{Ability: AfflatusRapture, Count: pl.rapture},
		{Ability: Assize, Count: pl.assize},
	}
}

// inWindow fills a window opened with the burst: Glare IV stacks, one Dia,
// optionally one Misery, then Glare III. One Assize goes into every window.
func (pl plan) inWindow(gcd float64, miseryInBurst bool) func(float64) []combat.SkillCount {
	return func(d float64) []combat.SkillCount {
		left := int(math.Floor(d/gcd + 1e-9))
		take := func(want int) int {
			n := want
			if n > left {
				n = left
			}
			left -= n
			return n
		}
		gIV := take(min(pl.glareIV, sacredSight))
		dia := take(min(pl.dia, 1))
		misery := 0
		if miseryInBurst {
			misery = take(min(pl.misery, 1))
		}
		glare := take(pl.glare())
		return []combat.SkillCount{
			{Ability: Glare, Count: glare},
			{Ability: GlareIV, Count: gIV},
			{Ability: Dia, Count: dia},
			{Ability: AfflatusMisery, Count: misery},
			{Ability: Assize, Count: min(pl.assize, 1)},
		}
	}
}

func candidates(st *stats.ComputedStats, s sim.Settings, log zerolog.Logger) []sim.CountCandidate {
	opts := sim.DecodeOptions(s.Options, defaultOptions(), log)
	if opts.CycleTime <= 0 {
		log.Warn().Float64("cycle_time", opts.CycleTime).Msg("ignoring non-positive cycle time")
		opts.CycleTime = defaultOptions().CycleTime
	}
	pl := newPlan(st, opts.CycleTime)
	gcd := st.Gcd(Glare.GcdLength, Glare.AttackType, 0)
	mk := func(name string, miseryInBurst bool) sim.CountCandidate {
		return sim.CountCandidate{
			Name: name,
			Sim: combat.CountSim{
				Stats:     st,
				CycleTime: opts.CycleTime,
				Totals:    pl.totals(),
				InWindow:  pl.inWindow(gcd, miseryInBurst),
				Buffs:     s.Buffs(),
				StdDevs:   s.StdDevs,
			},
		}
	}
	return []sim.CountCandidate{
		mk("Misery in burst", true),
		mk("Misery on cooldown", false),
	}
}

func New() sim.JobSim {
	return &sim.CountJobSim{
		Name:       Job,
		Desc:       "White Mage: two minute cycle priced from ability counts per buff window",
		Defaults:   DefaultSettings(),
		Candidates: candidates,
	}
}
