package combat

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/stats"
	"xivsim/internal/xivmath"
)

// CooldownMode decides what happens when an ability is requested before its
// cooldown is back.
type CooldownMode int

const (
	// ModeDelay waits for the cooldown, pushing the next GCD out if needed.
	ModeDelay CooldownMode = iota
	// ModeClip refuses the use; the rotation is expected to check first.
	ModeClip
)

func (m CooldownMode) String() string {
	if m == ModeClip {
		return "clip"
	}
	return "delay"
}

func (m CooldownMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *CooldownMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "delay", "":
		*m = ModeDelay
	case "clip":
		*m = ModeClip
	default:
		return errors.Errorf("unknown cooldown mode %q", string(b))
	}
	return nil
}

const (
	DefaultAnimationLock = 0.6
	DefaultCasterTax     = 0.1
)

type Config struct {
	Stats     *stats.ComputedStats
	TotalTime float64
	// CycleTime is the nominal period of the rotation, reported in the result.
	CycleTime float64
	// PartyBuffs are fired at t=0 and then every Cooldown. Buffs belonging to
	// Job are skipped since the job's own abilities apply them.
	PartyBuffs []Buff
	Job        string

	CooldownMode  CooldownMode
	AnimationLock float64
	CasterTax     float64

	UseAutos   bool
	AutoAttack *Ability

	// StdDevs shifts MainDps by this many standard deviations.
	StdDevs float64
	Logger  zerolog.Logger
}

func (c *Config) setDefaults() {
	if c.AnimationLock <= 0 {
		c.AnimationLock = DefaultAnimationLock
	}
	if c.CasterTax < 0 {
		c.CasterTax = 0
	}
	if c.AutoAttack == nil {
		c.AutoAttack = AutoAttack
	}
	if c.CycleTime <= 0 {
		c.CycleTime = c.TotalTime
	}
}

// Gauge is a job's resource state machine. The processor checks CanUse
// before a use, prices the ability returned by Adjust, then calls Apply and
// stores a Snapshot on the record.
type Gauge[G any] interface {
	CanUse(ab *Ability) bool
	Adjust(ab *Ability) *Ability
	Apply(ab *Ability)
	Snapshot() G
}

// NoGauge is the gauge of jobs without resources.
type NoGauge struct{}

func (NoGauge) CanUse(*Ability) bool        { return true }
func (NoGauge) Adjust(ab *Ability) *Ability { return ab }
func (NoGauge) Apply(*Ability)              {}
func (NoGauge) Snapshot() NoGauge           { return NoGauge{} }

type partyBuffTimer struct {
	buff Buff
	next float64
}

// Processor drives one run on a virtual clock. It is not safe for
// concurrent use; every run gets its own.
type Processor[G any] struct {
	cfg   Config
	log   zerolog.Logger
	gauge Gauge[G]
	cds   *CooldownTracker
	buffs *BuffTracker

	now      float64
	nextGcd  float64
	nextAuto float64
	clip     float64

	party   []partyBuffTimer
	records []UsedAbility[G]
	// open DoT application per DoT id, and the time each applied record was
	// cut short by a refresh.
	openDots map[int]int
	dotCut   map[int]float64
}

func NewProcessor[G any](cfg Config, gauge Gauge[G]) (*Processor[G], error) {
	if cfg.Stats == nil {
		return nil, errors.New("processor needs computed stats")
	}
	if cfg.TotalTime <= 0 {
		return nil, errors.Errorf("total time must be positive, got %v", cfg.TotalTime)
	}
	cfg.setDefaults()
	p := &Processor[G]{
		cfg:      cfg,
		log:      cfg.Logger,
		gauge:    gauge,
		cds:      NewCooldownTracker(cfg.Logger),
		buffs:    NewBuffTracker(cfg.Logger),
		openDots: map[int]int{},
		dotCut:   map[int]float64{},
	}
	for _, b := range cfg.PartyBuffs {
		if cfg.Job != "" && strings.EqualFold(b.Job, cfg.Job) {
			continue
		}
		p.party = append(p.party, partyBuffTimer{buff: b})
	}
	return p, nil
}

func (p *Processor[G]) Config() Config              { return p.cfg }
func (p *Processor[G]) Stats() *stats.ComputedStats { return p.cfg.Stats }
func (p *Processor[G]) CurrentTime() float64        { return p.now }
func (p *Processor[G]) NextGcdTime() float64        { return p.nextGcd }
func (p *Processor[G]) GaugeState() G               { return p.gauge.Snapshot() }
func (p *Processor[G]) Records() []UsedAbility[G]   { return p.records }
func (p *Processor[G]) ClipTime() float64           { return p.clip }
func (p *Processor[G]) CooldownMode() CooldownMode  { return p.cfg.CooldownMode }
func (p *Processor[G]) IsReady(ab *Ability) bool    { return p.cds.IsReady(ab, p.now) }
func (p *Processor[G]) Charges(ab *Ability) int     { return p.cds.Charges(ab, p.now) }

// IsBuffActive, BuffRemaining and RemoveBuff see party buffs due by the
// current clock even when nothing was used since.
func (p *Processor[G]) IsBuffActive(name string) bool {
	p.syncParty(p.now)
	return p.buffs.IsActive(name, p.now)
}

func (p *Processor[G]) BuffRemaining(name string) float64 {
	p.syncParty(p.now)
	return p.buffs.Remaining(name, p.now)
}

func (p *Processor[G]) CooldownRemaining(ab *Ability) float64 {
	return p.cds.Remaining(ab, p.now)
}

// RemainingTime is the fight time left after the current clock.
func (p *Processor[G]) RemainingTime() float64 {
	return math.Max(0, p.cfg.TotalTime-p.now)
}

// RemainingGcdTime is the fight time left from the point the next GCD can
// start.
func (p *Processor[G]) RemainingGcdTime() float64 {
	return math.Max(0, p.cfg.TotalTime-math.Max(p.now, p.nextGcd))
}

// AdvanceTo idles until t. The clock only moves forward; earlier targets are
// logged and ignored. Idling past the next GCD slot delays that GCD.
func (p *Processor[G]) AdvanceTo(t float64) bool {
	if t < p.now-timeEpsilon {
		p.log.Warn().Float64("t", t).Float64("now", p.now).Msg("refusing to move the clock backwards")
		return false
	}
	if t > p.now {
		p.now = t
	}
	p.syncParty(p.now)
	return true
}

// RemoveBuff ends a running buff at the current time.
func (p *Processor[G]) RemoveBuff(name string) bool {
	p.syncParty(p.now)
	return p.buffs.Remove(name, p.now)
}

func (p *Processor[G]) animationLock(ab *Ability) float64 {
	if ab.AnimationLock > 0 {
		return ab.AnimationLock
	}
	return p.cfg.AnimationLock
}

// CanUseWithoutClipping reports whether ab can be weaved, now or once its
// cooldown is back, with its animation lock ending before the next GCD.
func (p *Processor[G]) CanUseWithoutClipping(ab *Ability) bool {
	start := math.Max(p.now, p.cds.ReadyAt(ab))
	return start+p.animationLock(ab) <= p.nextGcd+timeEpsilon
}

// Use dispatches on the ability's kind.
func (p *Processor[G]) Use(ab *Ability) bool {
	switch ab.Kind {
	case KindGCD:
		return p.UseGcd(ab)
	case KindOGCD:
		return p.UseOgcd(ab)
	}
	p.log.Warn().Str("ability", ab.Name).Msg("auto-attacks are scheduled by the processor")
	return false
}

// start resolves when ab could go off no earlier than from, honoring the
// cooldown mode. ok is false when the use must be refused.
func (p *Processor[G]) start(ab *Ability, from float64) (float64, bool) {
	if !p.gauge.CanUse(ab) {
		p.log.Warn().Str("ability", ab.Name).Float64("t", from).Msg("gauge does not allow ability")
		return 0, false
	}
	if !p.cds.IsReady(ab, from) {
		if p.cfg.CooldownMode == ModeClip {
			p.log.Warn().Str("ability", ab.Name).Float64("t", from).
				Float64("remaining", p.cds.Remaining(ab, from)).Msg("ability not ready")
			return 0, false
		}
		from = p.cds.ReadyAt(ab)
	}
	if from >= p.cfg.TotalTime-timeEpsilon {
		p.log.Debug().Str("ability", ab.Name).Float64("t", from).Msg("use past the end of the fight")
		return 0, false
	}
	return from, true
}

func (p *Processor[G]) UseGcd(ab *Ability) bool {
	if ab.Kind != KindGCD {
		p.log.Warn().Str("ability", ab.Name).Stringer("kind", ab.Kind).Msg("not a GCD")
		return false
	}
	at, ok := p.start(ab, math.Max(p.now, p.nextGcd))
	if !ok {
		return false
	}
	if at > p.nextGcd+timeEpsilon {
		p.clip += at - p.nextGcd
	}
	p.sync(at)

	priced := p.gauge.Adjust(ab)
	haste := p.buffs.ActiveEffectsAt(at).Haste
	gcd, cast := priced.GcdLength, priced.CastTime
	if !priced.FixedGcd {
		gcd = p.cfg.Stats.Gcd(gcd, priced.AttackType, haste)
		if cast > 0 {
			cast = p.cfg.Stats.Gcd(cast, priced.AttackType, haste)
		}
	}
	lock := p.animationLock(priced)
	if cast > 0 {
		lock = cast + p.cfg.CasterTax
	}

	p.cds.Use(ab, at)
	p.record(priced, at)
	p.now = at + lock
	p.nextGcd = at + math.Max(gcd, lock)
	return true
}

func (p *Processor[G]) UseOgcd(ab *Ability) bool {
	if ab.Kind != KindOGCD {
		p.log.Warn().Str("ability", ab.Name).Stringer("kind", ab.Kind).Msg("not an oGCD")
		return false
	}
	at, ok := p.start(ab, p.now)
	if !ok {
		return false
	}
	p.sync(at)
	priced := p.gauge.Adjust(ab)
	p.cds.Use(ab, at)
	p.record(priced, at)
	p.now = at + p.animationLock(priced)
	return true
}

// AddSpecialRow appends an annotation to the use log.
func (p *Processor[G]) AddSpecialRow(note string) {
	p.sync(p.now)
	p.records = append(p.records, UsedAbility[G]{
		Timestamp: p.now,
		Gauge:     p.gauge.Snapshot(),
		Effects:   NoBuffs(),
		Special:   true,
		Note:      note,
	})
}

// RemainingCycles calls fn once per cycle until the fight has no GCD time
// left. A cycle that does not move the clock stops the loop.
func (p *Processor[G]) RemainingCycles(fn func(cycle int)) {
	for cycle := 0; p.RemainingGcdTime() > 0; cycle++ {
		before, beforeGcd := p.now, p.nextGcd
		fn(cycle)
		if p.now == before && p.nextGcd == beforeGcd {
			p.log.Warn().Int("cycle", cycle).Float64("t", p.now).Msg("cycle made no progress")
			return
		}
	}
}

// sync fires party buffs and auto-attacks due up to t.
func (p *Processor[G]) sync(t float64) {
	p.syncParty(t)
	if !p.cfg.UseAutos || p.cfg.Stats.WeaponDelay <= 0 {
		return
	}
	for p.nextAuto <= t && p.nextAuto < p.cfg.TotalTime {
		at := p.nextAuto
		p.syncParty(at)
		haste := p.buffs.ActiveEffectsAt(at).Haste
		p.record(p.cfg.AutoAttack, at)
		p.nextAuto = at + p.cfg.Stats.WeaponDelay*(100-haste)/100
	}
}

func (p *Processor[G]) syncParty(t float64) {
	for i := range p.party {
		pb := &p.party[i]
		for pb.next <= t && pb.next < p.cfg.TotalTime {
			p.buffs.Activate(pb.buff, pb.next)
			if pb.buff.Cooldown <= 0 {
				pb.next = math.Inf(1)
				break
			}
			pb.next += pb.buff.Cooldown
		}
	}
}

// record prices the ability at time at and appends it to the log. Non-auto
// uses also step the gauge and start the buffs they grant.
func (p *Processor[G]) record(priced *Ability, at float64) {
	active := p.buffs.ActiveAt(at)
	eff := Combine(active...)
	hit := DirectHit(p.cfg.Stats, priced, eff)
	rec := UsedAbility[G]{
		Ability:   priced,
		Timestamp: at,
		Buffs:     active,
		Effects:   eff,
		Hit:       hit,
		Direct:    hit.Value(),
	}
	if d := priced.Dot; d != nil {
		tick := DotTick(p.cfg.Stats, priced, eff)
		rec.Dot = &DotUsage{
			ID:          d.ID,
			TickPotency: d.TickPotency,
			Tick:        tick,
			TickDamage:  tick.Value(),
			MaxTicks:    d.MaxTicks(),
		}
		if prev, ok := p.openDots[d.ID]; ok {
			p.dotCut[prev] = at
		}
		p.openDots[d.ID] = len(p.records)
	}
	if priced.Kind != KindAuto {
		p.gauge.Apply(priced)
		for _, b := range priced.ActivatesBuffs {
			p.buffs.Activate(b, at)
		}
	}
	rec.Gauge = p.gauge.Snapshot()
	p.records = append(p.records, rec)
}

func (p *Processor[G]) dotTicks(i int) int {
	rec := &p.records[i]
	end := p.cfg.TotalTime
	if cut, ok := p.dotCut[i]; ok && cut < end {
		end = cut
	}
	n := int(math.Floor((end-rec.Timestamp)/DotTickInterval + timeEpsilon))
	if n > rec.Dot.MaxTicks {
		n = rec.Dot.MaxTicks
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Result settles DoT ticks, fires the auto-attacks left before the end of
// the fight and aggregates the log.
func (p *Processor[G]) Result(label string) *Result[G] {
	p.sync(p.cfg.TotalTime)

	res := &Result[G]{
		Label:     label,
		CycleTime: p.cfg.CycleTime,
		TotalTime: p.cfg.TotalTime,
		ClipTime:  p.clip,
		Records:   make([]UsedAbility[G], len(p.records)),
	}
	copy(res.Records, p.records)

	total := xivmath.Fixed(0)
	potency := 0.0
	for i := range res.Records {
		rec := &res.Records[i]
		if rec.Special {
			continue
		}
		if rec.Dot != nil {
			dot := *rec.Dot
			dot.Ticks = p.dotTicks(i)
			rec.Dot = &dot
			potency += p.cfg.Stats.ScaledPotency(dot.TickPotency, rec.Ability.AttackType) * float64(dot.Ticks)
		}
		potency += p.cfg.Stats.ScaledPotency(rec.Ability.Potency, rec.Ability.AttackType)
		total = xivmath.AddValues(total, rec.Total())
	}
	res.TotalDamage = total
	res.Dps = xivmath.MultiplyFixed(total, 1/p.cfg.TotalTime)
	res.MainDps = xivmath.ApplyStdDev(res.Dps, p.cfg.StdDevs)
	res.UnbuffedPps = potency / p.cfg.TotalTime
	return res
}
