package sim

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/stats"
)

var ErrUnknownJob = errors.New("unknown job")

// RunOptions are per-call knobs that are not part of the saved settings.
type RunOptions struct {
	Concurrency int
	// Samples > 0 adds a Monte-Carlo check of the best timeline result.
	Samples  int
	Seed     int64
	Logger   zerolog.Logger
	Progress func(done, total int, c Candidate)
}

// JobSim is one job's simulation entry point.
type JobSim interface {
	Job() string
	Description() string
	DefaultSettings() Settings
	Simulate(ctx context.Context, st *stats.ComputedStats, s Settings, opts RunOptions) (*Report, error)
}

// Registry maps job abbreviations to their sims. It is built once at startup
// and only read afterwards.
type Registry struct {
	sims map[string]JobSim
}

func NewRegistry(sims ...JobSim) (*Registry, error) {
	r := &Registry{sims: map[string]JobSim{}}
	for _, s := range sims {
		job := strings.ToUpper(s.Job())
		if _, ok := r.sims[job]; ok {
			return nil, errors.Errorf("job %s registered twice", job)
		}
		r.sims[job] = s
	}
	return r, nil
}

func (r *Registry) Get(job string) (JobSim, error) {
	s, ok := r.sims[strings.ToUpper(job)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownJob, "%q", job)
	}
	return s, nil
}

// Jobs lists the registered jobs alphabetically.
func (r *Registry) Jobs() []string {
	out := make([]string, 0, len(r.sims))
	for job := range r.sims {
		out = append(out, job)
	}
	sort.Strings(out)
	return out
}

// LoadSavedSimInstance picks the sim a saved instance belongs to and reads
// its settings on top of that job's defaults. Only an unknown job is an
// error; bad settings fall back to defaults.
func (r *Registry) LoadSavedSimInstance(data []byte, log zerolog.Logger) (JobSim, Settings, error) {
	s, err := r.Get(SavedJob(data))
	if err != nil {
		return nil, Settings{}, err
	}
	return s, LoadSettings(data, s.DefaultSettings(), log), nil
}
