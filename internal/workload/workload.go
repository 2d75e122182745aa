// Package workload loads and validates YAML workload files: the job sets a
// simulation replays through the scheduling engine.
//
// A workload file looks like:
//
//	name: mixed-burst
//	description: three CPU-bound jobs and one short interactive job
//	defaults:
//	  cores: 2
//	  policy: psjf
//	  quantum: 4
//	jobs:
//	  - id: 1
//	    arrival: 0
//	    service: 10
//	    priority: 2
package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JobSpec describes one job to feed the engine.
type JobSpec struct {
	ID       int `yaml:"id" json:"id"`
	Arrival  int `yaml:"arrival" json:"arrival"`
	Service  int `yaml:"service" json:"service"`
	Priority int `yaml:"priority" json:"priority"`
}

// Defaults are simulation options a workload file may suggest; command-line
// flags and request options override them.
type Defaults struct {
	Cores   int    `yaml:"cores" json:"cores,omitempty"`
	Policy  string `yaml:"policy" json:"policy,omitempty"`
	Quantum int    `yaml:"quantum" json:"quantum,omitempty"`
}

// Workload is a named set of jobs plus optional default options.
type Workload struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description,omitempty"`
	Defaults    Defaults  `yaml:"defaults" json:"defaults,omitempty"`
	Jobs        []JobSpec `yaml:"jobs" json:"jobs"`
}

// Parse decodes a YAML workload document and validates it.
func Parse(data []byte) (*Workload, error) {
	var w Workload
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse workload: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Load reads and parses the workload file at path.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Validate checks the structural rules the engine's call contract assumes:
// at least one job, unique job IDs, unique arrival times, non-negative
// arrivals and priorities, and strictly positive service times.
func (w *Workload) Validate() error {
	if len(w.Jobs) == 0 {
		return fmt.Errorf("workload %q: no jobs", w.Name)
	}

	ids := make(map[int]bool, len(w.Jobs))
	arrivals := make(map[int]bool, len(w.Jobs))
	for _, j := range w.Jobs {
		if ids[j.ID] {
			return fmt.Errorf("workload %q: duplicate job id %d", w.Name, j.ID)
		}
		ids[j.ID] = true

		if j.Arrival < 0 {
			return fmt.Errorf("workload %q, job %d: negative arrival %d", w.Name, j.ID, j.Arrival)
		}
		if arrivals[j.Arrival] {
			return fmt.Errorf("workload %q, job %d: duplicate arrival time %d", w.Name, j.ID, j.Arrival)
		}
		arrivals[j.Arrival] = true

		if j.Service < 1 {
			return fmt.Errorf("workload %q, job %d: service time must be positive, got %d", w.Name, j.ID, j.Service)
		}
		if j.Priority < 0 {
			return fmt.Errorf("workload %q, job %d: negative priority %d", w.Name, j.ID, j.Priority)
		}
	}
	return nil
}
