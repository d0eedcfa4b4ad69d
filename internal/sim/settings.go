package sim

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	jsoniter "github.com/json-iterator/go"

	"xivsim/internal/combat"
)

// Settings are the user choices saved with a sim instance. Options holds
// job-specific toggles that only the job can decode.
type Settings struct {
	PartyBuffs   []string            `json:"party_buffs"`
	TotalTime    float64             `json:"total_time"`
	CooldownMode combat.CooldownMode `json:"cooldown_mode"`
	StdDevs      float64             `json:"std_devs"`
	UseAutos     bool                `json:"use_autos"`
	Options      jsoniter.RawMessage `json:"options,omitempty"`
}

// partialSettings mirrors Settings with optional fields so absent keys keep
// their defaults.
type partialSettings struct {
	PartyBuffs   *[]string           `json:"party_buffs"`
	TotalTime    *float64            `json:"total_time"`
	CooldownMode *string             `json:"cooldown_mode"`
	StdDevs      *float64            `json:"std_devs"`
	UseAutos     *bool               `json:"use_autos"`
	Options      jsoniter.RawMessage `json:"options"`
}

type savedInstance struct {
	Job      string              `json:"job"`
	Settings jsoniter.RawMessage `json:"settings"`
}

// ExportSettings serializes s for job.
func ExportSettings(job string, s Settings) ([]byte, error) {
	raw, err := jsoniter.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode settings")
	}
	out, err := jsoniter.Marshal(savedInstance{Job: strings.ToUpper(job), Settings: raw})
	return out, errors.Wrap(err, "encode saved instance")
}

// SavedJob returns the job a saved instance belongs to, or "" when the data
// cannot be read.
func SavedJob(data []byte) string {
	var saved savedInstance
	if err := jsoniter.Unmarshal(data, &saved); err != nil {
		return ""
	}
	return strings.ToUpper(saved.Job)
}

// LoadSettings reads a saved instance on top of defaults. Anything missing or
// unreadable keeps its default; problems are logged, never returned.
func LoadSettings(data []byte, defaults Settings, log zerolog.Logger) Settings {
	out := defaults
	out.PartyBuffs = append([]string(nil), defaults.PartyBuffs...)

	var saved savedInstance
	if err := jsoniter.Unmarshal(data, &saved); err != nil {
		log.Warn().Err(err).Msg("saved settings unreadable, using defaults")
		return out
	}
	if len(saved.Settings) == 0 {
		return out
	}
	var p partialSettings
	if err := jsoniter.Unmarshal(saved.Settings, &p); err != nil {
		log.Warn().Err(err).Msg("saved settings malformed, using defaults")
		return out
	}

	if p.PartyBuffs != nil {
		buffs, unknown := combat.PartyBuffsByName(*p.PartyBuffs)
		if len(unknown) > 0 {
			log.Warn().Strs("buffs", unknown).Msg("dropping unknown party buffs")
		}
		out.PartyBuffs = out.PartyBuffs[:0]
		for _, b := range buffs {
			out.PartyBuffs = append(out.PartyBuffs, b.Name)
		}
	}
	if p.TotalTime != nil {
		if *p.TotalTime > 0 {
			out.TotalTime = *p.TotalTime
		} else {
			log.Warn().Float64("totalTime", *p.TotalTime).Msg("ignoring non-positive fight length")
		}
	}
	if p.CooldownMode != nil {
		var mode combat.CooldownMode
		if err := mode.UnmarshalText([]byte(*p.CooldownMode)); err != nil {
			log.Warn().Err(err).Msg("ignoring cooldown mode")
		} else {
			out.CooldownMode = mode
		}
	}
	if p.StdDevs != nil {
		out.StdDevs = *p.StdDevs
	}
	if p.UseAutos != nil {
		out.UseAutos = *p.UseAutos
	}
	if len(p.Options) > 0 {
		out.Options = p.Options
	}
	return out
}

// DecodeOptions reads job options on top of defaults. Empty or malformed
// input gives the defaults back.
func DecodeOptions[T any](raw jsoniter.RawMessage, defaults T, log zerolog.Logger) T {
	if len(raw) == 0 {
		return defaults
	}
	out := defaults
	if err := jsoniter.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Msg("job options malformed, using defaults")
		return defaults
	}
	return out
}

// EncodeOptions is the inverse of DecodeOptions for jobs building defaults.
func EncodeOptions(v any) jsoniter.RawMessage {
	raw, err := jsoniter.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

// Buffs resolves the enabled party buff names.
func (s Settings) Buffs() []combat.Buff {
	buffs, _ := combat.PartyBuffsByName(s.PartyBuffs)
	return buffs
}
