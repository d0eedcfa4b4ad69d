package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/config"
	"xivsim/internal/jobs"
	"xivsim/internal/logging"
	"xivsim/internal/sim"
	"xivsim/internal/stats"
)

type flags struct {
	config, gearsets, settings, job, out, export, logLevel string
	samples, concurrency                                   int
	seed                                                   int64
	pretty                                                 bool
}

func main() {
	godotenv.Load()

	var f flags
	flag.StringVar(&f.config, "config", "", "run file (yaml)")
	flag.StringVar(&f.gearsets, "gearsets", "", "gear set table (csv), one run per row")
	flag.StringVar(&f.settings, "settings", "", "saved settings (json)")
	flag.StringVar(&f.job, "job", "", "job to simulate")
	flag.StringVar(&f.out, "out", "", "report output file (json)")
	flag.StringVar(&f.export, "export", "", "write the effective settings here")
	flag.StringVar(&f.logLevel, "log-level", os.Getenv("XIVSIM_LOG_LEVEL"), "log level")
	flag.IntVar(&f.samples, "samples", 0, "Monte-Carlo samples checking the best rotation")
	flag.Int64Var(&f.seed, "seed", 12345, "seed for sampling")
	flag.IntVar(&f.concurrency, "concurrency", runtime.GOMAXPROCS(0), "candidates simulated at once")
	flag.BoolVar(&f.pretty, "pretty", false, "human readable logs")
	flag.Parse()

	log, err := logging.New(os.Stderr, f.logLevel, f.pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(2)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warn().Err(err).Msg("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, f, log); err != nil {
		sentry.CaptureException(err)
		log.Error().Msgf("%+v", err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

type gearRun struct {
	name  string
	stats stats.Substats
}

func run(ctx context.Context, f flags, log zerolog.Logger) error {
	var sets []gearRun
	if f.config != "" {
		rc, err := config.LoadRun(f.config)
		if err != nil {
			return err
		}
		if f.job == "" {
			f.job = rc.Job
		}
		if f.settings == "" {
			f.settings = rc.Settings
		}
		if f.out == "" {
			f.out = rc.Output
		}
		set := map[string]bool{}
		flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
		if !set["samples"] && rc.Samples > 0 {
			f.samples = rc.Samples
		}
		if !set["seed"] && rc.Seed != 0 {
			f.seed = rc.Seed
		}
		if !set["concurrency"] && rc.Concurrency > 0 {
			f.concurrency = rc.Concurrency
		}
		sets = append(sets, gearRun{name: f.config, stats: rc.Stats})
	}
	if f.gearsets != "" {
		gs, err := config.LoadGearSets(f.gearsets)
		if err != nil {
			return err
		}
		for _, g := range gs {
			sets = append(sets, gearRun{name: g.Name, stats: g.Stats})
		}
	}
	if len(sets) == 0 {
		return errors.New("nothing to simulate: pass -config or -gearsets")
	}

	reg, err := jobs.NewRegistry()
	if err != nil {
		return err
	}

	reports := map[string]*sim.Report{}
	for i, set := range sets {
		job := f.job
		if job == "" {
			job = set.stats.Job
		}
		js, err := reg.Get(job)
		if err != nil {
			return errors.Wrapf(err, "gear set %s", set.name)
		}
		if set.stats.Job == "" {
			set.stats.Job = js.Job()
		}
		if !strings.EqualFold(set.stats.Job, js.Job()) {
			return errors.Errorf("gear set %s is for %s, not %s", set.name, set.stats.Job, js.Job())
		}
		set.stats.Job = js.Job()

		settings, err := loadSettings(f.settings, js, log)
		if err != nil {
			return err
		}
		if f.export != "" && i == 0 {
			data, err := sim.ExportSettings(js.Job(), settings)
			if err != nil {
				return err
			}
			if err := os.WriteFile(f.export, data, 0644); err != nil {
				return errors.WithStack(err)
			}
		}

		st, err := stats.Compute(set.stats)
		if err != nil {
			return errors.Wrapf(err, "gear set %s", set.name)
		}
		start := time.Now()
		rep, err := js.Simulate(ctx, st, settings, sim.RunOptions{
			Concurrency: f.concurrency,
			Samples:     f.samples,
			Seed:        f.seed,
			Logger:      log,
			Progress: func(done, total int, c sim.Candidate) {
				log.Debug().Int("done", done).Int("total", total).Str("candidate", c.Name).
					Float64("dps", c.MainDps).Msg("candidate finished")
			},
		})
		if err != nil {
			return errors.Wrapf(err, "gear set %s", set.name)
		}
		log.Info().Str("set", set.name).Dur("took", time.Since(start)).Msg("simulated")

		if len(sets) > 1 {
			fmt.Printf("== %s\n", set.name)
		}
		fmt.Println(rep.Summary())
		reports[set.name] = rep
	}

	if f.out == "" {
		return nil
	}
	var v any = reports
	if len(sets) == 1 {
		v = reports[sets[0].name]
	}
	if err := os.WriteFile(f.out, sim.MarshalPretty(v), 0644); err != nil {
		return errors.WithStack(err)
	}
	log.Info().Str("out", f.out).Msg("report written")
	return nil
}

// loadSettings reads a saved instance for js, or returns its defaults when
// path is empty. Settings saved for another job only keep what that job's
// defaults can use.
func loadSettings(path string, js sim.JobSim, log zerolog.Logger) (sim.Settings, error) {
	if path == "" {
		return js.DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Settings{}, errors.WithStack(err)
	}
	if saved := sim.SavedJob(data); saved != "" && saved != js.Job() {
		log.Warn().Str("saved", saved).Str("job", js.Job()).Msg("settings were saved for another job")
	}
	return sim.LoadSettings(data, js.DefaultSettings(), log), nil
}
