package combat

import (
	"github.com/pkg/errors"

	"xivsim/internal/stats"
)

// Kind decides how the processor schedules an ability. It is fixed when the
// catalog entry is written.
type Kind int

const (
	KindGCD Kind = iota
	KindOGCD
	KindAuto
)

func (k Kind) String() string {
	switch k {
	case KindGCD:
		return "GCD"
	case KindOGCD:
		return "oGCD"
	case KindAuto:
		return "Auto"
	}
	return "Unknown"
}

type Cooldown struct {
	Time       float64
	MaxCharges int
}

func (c Cooldown) charges() int {
	if c.MaxCharges < 1 {
		return 1
	}
	return c.MaxCharges
}

// Dot is the damage-over-time component of an ability. Ticks land every
// DotTickInterval seconds.
type Dot struct {
	ID          int
	TickPotency float64
	Duration    float64
}

const DotTickInterval = 3.0

func (d Dot) MaxTicks() int {
	return int(d.Duration/DotTickInterval + 1e-9)
}

type Ability struct {
	ID         int
	Name       string
	Kind       Kind
	AttackType stats.AttackType
	// Potency of the direct hit; zero for abilities that only apply buffs.
	Potency float64

	GcdLength float64
	CastTime  float64
	FixedGcd  bool

	// AnimationLock overrides the processor default when positive.
	AnimationLock float64

	Cooldown       *Cooldown
	Dot            *Dot
	ActivatesBuffs []Buff

	AutoCrit bool
	AutoDh   bool
}

func (a *Ability) Validate() error {
	if a.Name == "" {
		return errors.Errorf("ability %d has no name", a.ID)
	}
	switch a.Kind {
	case KindGCD:
		if a.GcdLength <= 0 {
			return errors.Errorf("%s: GCD ability needs a positive gcd length", a.Name)
		}
	case KindOGCD:
		if a.GcdLength != 0 || a.CastTime != 0 {
			return errors.Errorf("%s: oGCD ability cannot have a gcd or cast time", a.Name)
		}
	case KindAuto:
		if a.AttackType != stats.AttackAutoAttack {
			return errors.Errorf("%s: auto-attacks must use the auto-attack type", a.Name)
		}
	default:
		return errors.Errorf("%s: unknown kind %d", a.Name, a.Kind)
	}
	if a.Potency < 0 {
		return errors.Errorf("%s: negative potency", a.Name)
	}
	if a.Cooldown != nil && a.Cooldown.Time <= 0 {
		return errors.Errorf("%s: cooldown must be positive", a.Name)
	}
	if a.Dot != nil && (a.Dot.Duration <= 0 || a.Dot.TickPotency <= 0) {
		return errors.Errorf("%s: dot needs a positive duration and tick potency", a.Name)
	}
	for _, b := range a.ActivatesBuffs {
		if b.Duration <= 0 {
			return errors.Errorf("%s: buff %s has no duration", a.Name, b.Name)
		}
	}
	return nil
}

// ValidateCatalog checks every entry and that IDs are unique.
func ValidateCatalog(abilities ...*Ability) error {
	seen := map[int]string{}
	for _, a := range abilities {
		if err := a.Validate(); err != nil {
			return err
		}
		if prev, ok := seen[a.ID]; ok {
			return errors.Errorf("ability id %d used by both %s and %s", a.ID, prev, a.Name)
		}
		seen[a.ID] = a.Name
	}
	return nil
}

// AutoAttack is the default melee auto-attack.
var AutoAttack = &Ability{
	ID:         7,
	Name:       "Attack",
	Kind:       KindAuto,
	AttackType: stats.AttackAutoAttack,
	Potency:    90,
}
