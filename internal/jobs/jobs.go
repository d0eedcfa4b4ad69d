// Package jobs wires every job simulation into one registry.
package jobs

import (
	"xivsim/internal/jobs/pld"
	"xivsim/internal/jobs/sch"
	"xivsim/internal/jobs/whm"
	"xivsim/internal/sim"
)

func NewRegistry() (*sim.Registry, error) {
	return sim.NewRegistry(pld.New(), sch.New(), whm.New())
}
