package sim

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/combat"
	"xivsim/internal/parallel"
)

// Rotation is one candidate playstyle. Apply drives a fresh processor; any
// bookkeeping it needs lives in a state value it creates itself.
type Rotation[G any] struct {
	Name      string
	CycleTime float64
	Apply     func(p *combat.Processor[G])
}

// Driver runs candidate rotations on independent processors and keeps the
// best one.
type Driver[G any] struct {
	Config   combat.Config
	NewGauge func() combat.Gauge[G]
	// Concurrency above one runs candidates on a worker pool. Results are
	// identical either way.
	Concurrency int
	// OnResult is called once per finished candidate, never concurrently.
	OnResult func(i int, res *combat.Result[G])
	Logger   zerolog.Logger
}

func (d *Driver[G]) runOne(r Rotation[G]) (*combat.Result[G], error) {
	cfg := d.Config
	cfg.Logger = d.Logger.With().Str("rotation", r.Name).Logger()
	if r.CycleTime > 0 {
		cfg.CycleTime = r.CycleTime
	}
	p, err := combat.NewProcessor(cfg, d.NewGauge())
	if err != nil {
		return nil, errors.Wrapf(err, "rotation %s", r.Name)
	}
	r.Apply(p)
	return p.Result(r.Name), nil
}

// RunAll simulates every rotation and returns the results in candidate
// order. A cancelled context stops candidates that have not started.
func (d *Driver[G]) RunAll(ctx context.Context, rotations []Rotation[G]) ([]*combat.Result[G], error) {
	if len(rotations) == 0 {
		return nil, errors.New("no rotations to simulate")
	}
	results := make([]*combat.Result[G], len(rotations))
	var cbLock sync.Mutex
	done := func(i int, res *combat.Result[G]) {
		d.Logger.Debug().Str("rotation", res.Label).Float64("dps", res.Dps.Expected).Msg("rotation done")
		if d.OnResult == nil {
			return
		}
		cbLock.Lock()
		defer cbLock.Unlock()
		d.OnResult(i, res)
	}

	if d.Concurrency <= 1 {
		for i, r := range rotations {
			if err := ctx.Err(); err != nil {
				return nil, errors.WithStack(err)
			}
			res, err := d.runOne(r)
			if err != nil {
				return nil, err
			}
			results[i] = res
			done(i, res)
		}
		return results, nil
	}

	pool := parallel.New(d.Concurrency)
	pool.Reset(ctx)
	defer pool.Stop()
	for i, r := range rotations {
		i, r := i, r
		pool.Add(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			res, err := d.runOne(r)
			if err != nil {
				return err
			}
			results[i] = res
			done(i, res)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run simulates every rotation and returns the best result along with all
// of them.
func (d *Driver[G]) Run(ctx context.Context, rotations []Rotation[G]) (*combat.Result[G], []*combat.Result[G], error) {
	results, err := d.RunAll(ctx, rotations)
	if err != nil {
		return nil, nil, err
	}
	return SelectBest(results), results, nil
}

// SelectBest returns the result with the highest MainDps. Ties keep the
// earlier candidate.
func SelectBest[G any](results []*combat.Result[G]) *combat.Result[G] {
	var best *combat.Result[G]
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == nil || r.MainDps > best.MainDps {
			best = r
		}
	}
	return best
}
