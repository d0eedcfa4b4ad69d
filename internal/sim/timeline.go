package sim

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/stats"
)

// TimelineSim adapts a set of rotations over gauge G into a JobSim.
type TimelineSim[G any] struct {
	Name     string
	Desc     string
	Defaults Settings
	NewGauge func() combat.Gauge[G]
	// Rotations lists the candidates for one run. Job options from the
	// settings are already decoded by the job.
	Rotations func(s Settings, log zerolog.Logger) []Rotation[G]
}

func (t *TimelineSim[G]) Job() string               { return t.Name }
func (t *TimelineSim[G]) Description() string       { return t.Desc }
func (t *TimelineSim[G]) DefaultSettings() Settings { return t.Defaults }

func (t *TimelineSim[G]) Simulate(ctx context.Context, st *stats.ComputedStats, s Settings, opts RunOptions) (*Report, error) {
	if st == nil {
		return nil, errors.New("no stats to simulate")
	}
	log := opts.Logger.With().Str("job", t.Name).Logger()
	rotations := t.Rotations(s, log)
	d := &Driver[G]{
		Config: combat.Config{
			Stats:        st,
			TotalTime:    s.TotalTime,
			PartyBuffs:   s.Buffs(),
			Job:          t.Name,
			CooldownMode: s.CooldownMode,
			UseAutos:     s.UseAutos,
			StdDevs:      s.StdDevs,
		},
		NewGauge:    t.NewGauge,
		Concurrency: opts.Concurrency,
		Logger:      log,
	}
	done := 0
	if opts.Progress != nil {
		d.OnResult = func(_ int, res *combat.Result[G]) {
			done++
			opts.Progress(done, len(rotations), Candidate{Name: res.Label, MainDps: res.MainDps})
		}
	}

	best, all, err := d.Run(ctx, rotations)
	if err != nil {
		return nil, err
	}
	rep := FromResult(t.Name, best, all)
	if opts.Samples > 0 {
		samples := combat.SampleDps(best, opts.Samples, opts.Seed)
		rep.Samples = &samples
	}
	return rep, nil
}

type CountCandidate struct {
	Name string
	Sim  combat.CountSim
}

// CountJobSim adapts count based candidates into a JobSim.
type CountJobSim struct {
	Name     string
	Desc     string
	Defaults Settings
	// Candidates builds the count sims to compare for the given stats, in
	// tie-break order.
	Candidates func(st *stats.ComputedStats, s Settings, log zerolog.Logger) []CountCandidate
}

func (c *CountJobSim) Job() string               { return c.Name }
func (c *CountJobSim) Description() string       { return c.Desc }
func (c *CountJobSim) DefaultSettings() Settings { return c.Defaults }

func (c *CountJobSim) Simulate(ctx context.Context, st *stats.ComputedStats, s Settings, opts RunOptions) (*Report, error) {
	if st == nil {
		return nil, errors.New("no stats to simulate")
	}
	log := opts.Logger.With().Str("job", c.Name).Logger()
	candidates := c.Candidates(st, s, log)
	if len(candidates) == 0 {
		return nil, errors.Errorf("%s has no count candidates", c.Name)
	}

	var all []*combat.CountResult
	var best *combat.CountResult
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		res, err := cand.Sim.Run(cand.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "%s candidate %s", c.Name, cand.Name)
		}
		all = append(all, res)
		if best == nil || res.MainDps > best.MainDps {
			best = res
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(candidates), Candidate{Name: cand.Name, MainDps: res.MainDps})
		}
	}
	return FromCountResult(c.Name, best, all), nil
}
