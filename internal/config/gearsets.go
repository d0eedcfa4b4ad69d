package config

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"

	"xivsim/internal/stats"
)

type GearSet struct {
	Name  string
	Stats stats.Substats
}

type column func(gs *GearSet, v string) error

func intColumn(field func(*stats.Substats) *int) column {
	return func(gs *GearSet, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(&gs.Stats) = n
		return nil
	}
}

var columns = map[string]column{
	"name": func(gs *GearSet, v string) error { gs.Name = v; return nil },
	"job":  func(gs *GearSet, v string) error { gs.Stats.Job = strings.ToUpper(v); return nil },
	"weapon_delay": func(gs *GearSet, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		gs.Stats.WeaponDelay = f
		return err
	},
	"level":         intColumn(func(s *stats.Substats) *int { return &s.Level }),
	"main_stat":     intColumn(func(s *stats.Substats) *int { return &s.MainStat }),
	"weapon_damage": intColumn(func(s *stats.Substats) *int { return &s.WeaponDamage }),
	"crit":          intColumn(func(s *stats.Substats) *int { return &s.Crit }),
	"direct_hit":    intColumn(func(s *stats.Substats) *int { return &s.DirectHit }),
	"determination": intColumn(func(s *stats.Substats) *int { return &s.Determination }),
	"skill_speed":   intColumn(func(s *stats.Substats) *int { return &s.SkillSpeed }),
	"spell_speed":   intColumn(func(s *stats.Substats) *int { return &s.SpellSpeed }),
	"tenacity":      intColumn(func(s *stats.Substats) *int { return &s.Tenacity }),
}

// ReadGearSets parses a gear-set table. The first row names the columns; a
// leading byte order mark is skipped and empty cells keep their zero value.
func ReadGearSets(r io.Reader) ([]GearSet, error) {
	sr, _ := utfbom.Skip(r)
	cr := csv.NewReader(sr)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	cols := make([]column, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		c, ok := columns[h]
		if !ok {
			return nil, errors.Errorf("unknown column %q", h)
		}
		cols[i] = c
	}

	var out []GearSet
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		var gs GearSet
		for i, v := range d {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if err := cols[i](&gs, v); err != nil {
				line, _ := cr.FieldPos(i)
				return nil, errors.Wrapf(err, "line %d column %s", line, header[i])
			}
		}
		out = append(out, gs)
	}
	return out, nil
}

func LoadGearSets(path string) ([]GearSet, error) {
	fs, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer fs.Close()

	sets, err := ReadGearSets(fs)
	return sets, errors.Wrap(err, path)
}
