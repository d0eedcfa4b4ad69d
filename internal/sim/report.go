package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"xivsim/internal/combat"
	"xivsim/internal/util"
	"xivsim/internal/xivmath"
)

type Row struct {
	T        float64                    `json:"t"`
	Ability  string                     `json:"ability,omitempty"`
	Kind     string                     `json:"kind,omitempty"`
	Potency  float64                    `json:"potency,omitempty"`
	Buffs    []string                   `json:"buffs,omitempty"`
	Gauge    any                        `json:"gauge,omitempty"`
	Damage   xivmath.ValueWithDeviation `json:"damage"`
	DotTicks int                        `json:"dot_ticks,omitempty"`
	Note     string                     `json:"note,omitempty"`
}

type Candidate struct {
	Name    string  `json:"name"`
	MainDps float64 `json:"main_dps"`
}

// Report is what the outer surfaces show: the best rotation's log and
// headline numbers, plus the score of every candidate.
type Report struct {
	Job         string                     `json:"job"`
	Rotation    string                     `json:"rotation"`
	CycleTime   float64                    `json:"cycle_time"`
	TotalTime   float64                    `json:"total_time"`
	TotalDamage xivmath.ValueWithDeviation `json:"total_damage"`
	Dps         xivmath.ValueWithDeviation `json:"dps"`
	MainDps     float64                    `json:"main_dps"`
	UnbuffedPps float64                    `json:"unbuffed_pps"`
	ClipTime    float64                    `json:"clip_time"`
	Candidates  []Candidate                `json:"candidates"`
	Rows        []Row                      `json:"rows,omitempty"`
	Buckets     []combat.Bucket            `json:"buckets,omitempty"`
	Samples     *util.Summary              `json:"samples,omitempty"`
}

func buffNames(buffs []combat.Buff) []string {
	if len(buffs) == 0 {
		return nil
	}
	out := make([]string, len(buffs))
	for i, b := range buffs {
		out[i] = b.Name
	}
	return out
}

// FromResult builds a report around the best timeline result.
func FromResult[G any](job string, best *combat.Result[G], all []*combat.Result[G]) *Report {
	r := &Report{
		Job:         job,
		Rotation:    best.Label,
		CycleTime:   best.CycleTime,
		TotalTime:   best.TotalTime,
		TotalDamage: best.TotalDamage,
		Dps:         best.Dps,
		MainDps:     best.MainDps,
		UnbuffedPps: best.UnbuffedPps,
		ClipTime:    best.ClipTime,
	}
	for _, res := range all {
		r.Candidates = append(r.Candidates, Candidate{Name: res.Label, MainDps: res.MainDps})
	}
	for i := range best.Records {
		rec := &best.Records[i]
		row := Row{T: rec.Timestamp, Gauge: rec.Gauge}
		if rec.Special {
			row.Note = rec.Note
			r.Rows = append(r.Rows, row)
			continue
		}
		row.Ability = rec.Ability.Name
		row.Kind = rec.Ability.Kind.String()
		row.Potency = rec.Ability.Potency
		row.Buffs = buffNames(rec.Buffs)
		row.Damage = rec.Total()
		if rec.Dot != nil {
			row.DotTicks = rec.Dot.Ticks
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// FromCountResult builds a report for count based jobs.
func FromCountResult(job string, best *combat.CountResult, all []*combat.CountResult) *Report {
	r := &Report{
		Job:         job,
		Rotation:    best.Label,
		CycleTime:   best.CycleTime,
		TotalTime:   best.CycleTime,
		TotalDamage: best.TotalDamage,
		Dps:         best.Dps,
		MainDps:     best.MainDps,
		UnbuffedPps: best.UnbuffedPps,
		Buckets:     best.Buckets,
	}
	for _, res := range all {
		r.Candidates = append(r.Candidates, Candidate{Name: res.Label, MainDps: res.MainDps})
	}
	return r
}

// Summary is a one-paragraph human readable digest.
func (r *Report) Summary() string {
	var sb strings.Builder
	fight := time.Duration(r.TotalTime * float64(time.Second))
	fmt.Fprintf(&sb, "%s %q: %s DPS (expected %s, sd %s) over %s\n",
		r.Job, r.Rotation,
		humanize.CommafWithDigits(r.MainDps, 1),
		humanize.CommafWithDigits(r.Dps.Expected, 1),
		humanize.CommafWithDigits(r.Dps.StdDev(), 1),
		fight)
	fmt.Fprintf(&sb, "total damage %s, unbuffed %s potency/s",
		humanize.Comma(int64(r.TotalDamage.Expected)),
		humanize.FtoaWithDigits(r.UnbuffedPps, 2))
	if r.ClipTime > 0 {
		fmt.Fprintf(&sb, ", %ss of GCD lost", humanize.FtoaWithDigits(r.ClipTime, 2))
	}
	if len(r.Candidates) > 1 {
		sb.WriteString("\ncandidates:")
		for _, c := range r.Candidates {
			fmt.Fprintf(&sb, "\n  %-32s %s", c.Name, humanize.CommafWithDigits(c.MainDps, 1))
		}
	}
	if r.Samples != nil && r.Samples.Samples > 0 {
		fmt.Fprintf(&sb, "\n%s samples: median %s, min %s, max %s",
			humanize.Comma(int64(r.Samples.Samples)),
			humanize.CommafWithDigits(r.Samples.Median, 1),
			humanize.CommafWithDigits(r.Samples.Min, 1),
			humanize.CommafWithDigits(r.Samples.Max, 1))
	}
	return sb.String()
}

func MarshalPretty(v any) []byte {
	b, _ := jsoniter.MarshalIndent(v, "", "  ")
	return b
}
