package stats

import (
	"strings"

	"github.com/pkg/errors"
)

type AttackType int

const (
	AttackSpell AttackType = iota
	AttackWeaponskill
	AttackAbility
	AttackAutoAttack
	AttackItem
)

var attackTypeNames = map[AttackType]string{
	AttackSpell:       "Spell",
	AttackWeaponskill: "Weaponskill",
	AttackAbility:     "Ability",
	AttackAutoAttack:  "Auto-attack",
	AttackItem:        "Item",
}

func (a AttackType) String() string {
	if s, ok := attackTypeNames[a]; ok {
		return s
	}
	return "Unknown"
}

func (a AttackType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AttackType) UnmarshalText(b []byte) error {
	for k, v := range attackTypeNames {
		if strings.EqualFold(v, string(b)) {
			*a = k
			return nil
		}
	}
	return errors.Errorf("unknown attack type %q", string(b))
}
