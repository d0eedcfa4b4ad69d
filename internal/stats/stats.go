package stats

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

type LevelStats struct {
	Level     int
	BaseMain  int
	BaseSub   int
	LevelDiv  int
	ApNonTank int
	ApTank    int
}

var levelTable = map[int]LevelStats{
	80:  {Level: 80, BaseMain: 340, BaseSub: 380, LevelDiv: 1300, ApNonTank: 165, ApTank: 115},
	90:  {Level: 90, BaseMain: 390, BaseSub: 400, LevelDiv: 1900, ApNonTank: 195, ApTank: 156},
	100: {Level: 100, BaseMain: 440, BaseSub: 420, LevelDiv: 2780, ApNonTank: 237, ApTank: 190},
}

func LevelStatsFor(level int) (LevelStats, bool) {
	ls, ok := levelTable[level]
	return ls, ok
}

// JobStats holds the per-job constants the damage formulas need.
type JobStats struct {
	MainStatMod int
	TraitMulti  float64
	Tank        bool
}

var jobTable = map[string]JobStats{
	"PLD": {MainStatMod: 100, TraitMulti: 1.0, Tank: true},
	"WAR": {MainStatMod: 105, TraitMulti: 1.0, Tank: true},
	"SCH": {MainStatMod: 115, TraitMulti: 1.3},
	"WHM": {MainStatMod: 115, TraitMulti: 1.3},
	"SGE": {MainStatMod: 115, TraitMulti: 1.3},
	"BLM": {MainStatMod: 115, TraitMulti: 1.3},
}

func JobStatsFor(job string) (JobStats, bool) {
	js, ok := jobTable[strings.ToUpper(job)]
	return js, ok
}

// Substats are the summed stats of an equipped gear set.
type Substats struct {
	Level         int     `yaml:"level" json:"level"`
	Job           string  `yaml:"job" json:"job"`
	MainStat      int     `yaml:"main_stat" json:"main_stat"`
	WeaponDamage  int     `yaml:"weapon_damage" json:"weapon_damage"`
	WeaponDelay   float64 `yaml:"weapon_delay" json:"weapon_delay"`
	Crit          int     `yaml:"crit" json:"crit"`
	DirectHit     int     `yaml:"direct_hit" json:"direct_hit"`
	Determination int     `yaml:"determination" json:"determination"`
	SkillSpeed    int     `yaml:"skill_speed" json:"skill_speed"`
	SpellSpeed    int     `yaml:"spell_speed" json:"spell_speed"`
	Tenacity      int     `yaml:"tenacity" json:"tenacity"`
}

// ComputedStats is the read-only view of a gear set the simulator consumes.
type ComputedStats struct {
	Level LevelStats `json:"-"`
	Job   string     `json:"job"`

	WeaponDelay   float64 `json:"weapon_delay"`
	CritChance    float64 `json:"crit_chance"`
	CritMulti     float64 `json:"crit_multi"`
	DhitChance    float64 `json:"dhit_chance"`
	DhitMulti     float64 `json:"dhit_multi"`
	AutoDhBonus   float64 `json:"auto_dh_bonus"`
	DetMulti      float64 `json:"det_multi"`
	TncMulti      float64 `json:"tnc_multi"`
	WdMulti       float64 `json:"wd_multi"`
	MainStatMulti float64 `json:"main_stat_multi"`
	TraitMulti    float64 `json:"trait_multi"`
	SkillSpeed    int     `json:"skill_speed"`
	SpellSpeed    int     `json:"spell_speed"`
}

func Compute(s Substats) (*ComputedStats, error) {
	ls, ok := LevelStatsFor(s.Level)
	if !ok {
		return nil, errors.Errorf("no level table for level %d", s.Level)
	}
	js, ok := JobStatsFor(s.Job)
	if !ok {
		return nil, errors.Errorf("no job table for %q", s.Job)
	}
	if s.WeaponDelay < 0 {
		return nil, errors.Errorf("negative weapon delay %v", s.WeaponDelay)
	}

	div := float64(ls.LevelDiv)
	sub := float64(ls.BaseSub)

	ap := ls.ApNonTank
	if js.Tank {
		ap = ls.ApTank
	}
	tnc := 1.0
	if js.Tank {
		tnc = (1000 + math.Floor(100*(float64(s.Tenacity)-sub)/div)) / 1000
	}

	return &ComputedStats{
		Level:         ls,
		Job:           strings.ToUpper(s.Job),
		WeaponDelay:   s.WeaponDelay,
		CritChance:    math.Floor(200*(float64(s.Crit)-sub)/div+50) / 1000,
		CritMulti:     (1400 + math.Floor(200*(float64(s.Crit)-sub)/div)) / 1000,
		DhitChance:    math.Floor(550*(float64(s.DirectHit)-sub)/div) / 1000,
		DhitMulti:     1.25,
		AutoDhBonus:   math.Floor(140*(float64(s.DirectHit)-sub)/div) / 1000,
		DetMulti:      (1000 + math.Floor(140*(float64(s.Determination)-float64(ls.BaseMain))/div)) / 1000,
		TncMulti:      tnc,
		WdMulti:       (math.Floor(float64(ls.BaseMain*js.MainStatMod)/1000) + float64(s.WeaponDamage)) / 100,
		MainStatMulti: (math.Floor(float64(ap)*(float64(s.MainStat)-float64(ls.BaseMain))/float64(ls.BaseMain)) + 100) / 100,
		TraitMulti:    js.TraitMulti,
		SkillSpeed:    s.SkillSpeed,
		SpellSpeed:    s.SpellSpeed,
	}, nil
}

func (c *ComputedStats) speedFor(at AttackType) (int, bool) {
	switch at {
	case AttackSpell:
		return c.SpellSpeed, true
	case AttackWeaponskill:
		return c.SkillSpeed, true
	}
	return 0, false
}

// Gcd returns the recast of a GCD (or the length of a cast) with the given
// base length after speed and haste, rounded down to 10ms. Haste is a
// percentage.
func (c *ComputedStats) Gcd(base float64, at AttackType, haste float64) float64 {
	speed, ok := c.speedFor(at)
	if !ok {
		speed = c.Level.BaseSub
	}
	return gcdFor(base, speed, c.Level, haste)
}

func gcdFor(base float64, speed int, ls LevelStats, haste float64) float64 {
	speedMod := 1000 + math.Ceil(130*float64(ls.BaseSub-speed)/float64(ls.LevelDiv))
	ms := math.Floor(base * speedMod)
	ms = math.Floor(ms * (100 - haste) / 100)
	return math.Floor(ms/10) / 100
}

// DotMulti is the speed scalar applied to damage over time.
func (c *ComputedStats) DotMulti(at AttackType) float64 {
	speed := c.SkillSpeed
	if at == AttackSpell {
		speed = c.SpellSpeed
	}
	return (1000 + math.Floor(130*float64(speed-c.Level.BaseSub)/float64(c.Level.LevelDiv))) / 1000
}

// ScaledPotency is the potency the damage formula actually uses: auto-attack
// potency is given per three seconds of weapon delay.
func (c *ComputedStats) ScaledPotency(potency float64, at AttackType) float64 {
	if at == AttackAutoAttack && c.WeaponDelay > 0 {
		return potency * c.WeaponDelay / 3
	}
	return potency
}

// BaseDamage converts potency into damage before crit, direct hit and buffs.
func (c *ComputedStats) BaseDamage(potency float64, at AttackType) float64 {
	if potency <= 0 {
		return 0
	}
	potency = c.ScaledPotency(potency, at)
	d1 := math.Floor(potency * c.MainStatMulti * c.DetMulti)
	return math.Floor(d1 * c.TncMulti * c.WdMulti * c.TraitMulti)
}

func (c *ComputedStats) DotTickDamage(tickPotency float64, at AttackType) float64 {
	return math.Floor(c.BaseDamage(tickPotency, at) * c.DotMulti(at))
}
