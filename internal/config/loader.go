// Package config reads run files and gear-set tables for the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"xivsim/internal/stats"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return errors.Wrapf(yaml.Unmarshal(b, out), "parse %s", path)
}

// RunConfig is one CLI run. Settings and Output are resolved against the
// directory of the run file.
type RunConfig struct {
	Job         string         `yaml:"job"`
	Stats       stats.Substats `yaml:"stats"`
	Settings    string         `yaml:"settings"`
	Output      string         `yaml:"output"`
	Samples     int            `yaml:"samples"`
	Seed        int64          `yaml:"seed"`
	Concurrency int            `yaml:"concurrency"`
}

func LoadRun(path string) (*RunConfig, error) {
	var rc RunConfig
	if err := loadYAML(path, &rc); err != nil {
		return nil, err
	}
	rc.Job = strings.ToUpper(rc.Job)
	if rc.Job == "" {
		rc.Job = strings.ToUpper(rc.Stats.Job)
	}
	if rc.Job == "" {
		return nil, errors.Errorf("%s: no job", path)
	}
	if rc.Stats.Job == "" {
		rc.Stats.Job = rc.Job
	}
	if !strings.EqualFold(rc.Stats.Job, rc.Job) {
		return nil, errors.Errorf("%s: stats are for %s, run is for %s", path, rc.Stats.Job, rc.Job)
	}
	rc.Stats.Job = rc.Job

	dir := filepath.Dir(path)
	rc.Settings = resolve(dir, rc.Settings)
	rc.Output = resolve(dir, rc.Output)
	return &rc, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
