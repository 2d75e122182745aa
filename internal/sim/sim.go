// Package sim is the discrete-event driver for the scheduling engine. It
// owns simulated time: it feeds arrivals, completions, and round-robin
// quantum expiries to a sched.Engine in time order, mirrors the core
// occupancy the engine's return values imply, and collects per-job results.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/me/schedsim/internal/workload"
	"github.com/me/schedsim/pkg/model"
	"github.com/me/schedsim/pkg/sched"
)

// Options configures one simulation run.
type Options struct {
	Cores   int
	Policy  sched.Policy
	Quantum int // time slice; round-robin only
}

// Result is the outcome of a completed simulation.
type Result struct {
	Policy      sched.Policy
	Cores       int
	Quantum     int
	Jobs        []model.JobRecord // sorted by job ID
	Makespan    int               // completion time of the last job
	Preemptions int               // arrival-triggered evictions

	AvgWait       float64
	AvgTurnaround float64
	AvgResponse   float64
}

// coreState mirrors what the engine decided for one core: which job it
// handed the core to, and when.
type coreState struct {
	jobID        int // -1 when idle
	dispatchedAt int
}

// event kinds, in processing order at equal timestamps: a finished or
// expiring core is handled before an arrival at the same instant.
const (
	evFinish = iota
	evQuantum
	evArrival
)

type simulation struct {
	engine *sched.Engine
	opts   Options
	logger *slog.Logger

	arrivals []workload.JobSpec // sorted by arrival time; next is arrivals[nextArrival]
	nextArrival int

	cores      []coreState
	remaining  map[int]int // per job, as of its last dispatch
	specs      map[int]workload.JobSpec
	firstStart map[int]int

	records     []model.JobRecord
	preemptions int
}

// Run replays the workload's jobs through a fresh engine under opts and
// returns the per-job records and aggregate metrics. The engine's own
// aggregates are cross-checked against the driver's bookkeeping; a
// disagreement means a broken invariant and fails the run.
func Run(jobs []workload.JobSpec, opts Options, logger *slog.Logger) (*Result, error) {
	if opts.Policy == sched.PolicyRoundRobin && opts.Quantum < 1 {
		return nil, fmt.Errorf("round-robin requires a positive quantum, got %d", opts.Quantum)
	}
	if opts.Policy != sched.PolicyRoundRobin {
		opts.Quantum = 0
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs to simulate")
	}

	engine, err := sched.New(opts.Cores, opts.Policy, sched.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	s := &simulation{
		engine:     engine,
		opts:       opts,
		logger:     logger.With("component", "sim"),
		arrivals:   make([]workload.JobSpec, len(jobs)),
		cores:      make([]coreState, opts.Cores),
		remaining:  make(map[int]int, len(jobs)),
		specs:      make(map[int]workload.JobSpec, len(jobs)),
		firstStart: make(map[int]int, len(jobs)),
	}
	copy(s.arrivals, jobs)
	sort.Slice(s.arrivals, func(i, j int) bool { return s.arrivals[i].Arrival < s.arrivals[j].Arrival })
	for i := range s.cores {
		s.cores[i].jobID = -1
	}
	for _, j := range jobs {
		s.remaining[j.ID] = j.Service
		s.specs[j.ID] = j
	}

	if err := s.run(); err != nil {
		return nil, err
	}
	return s.result()
}

func (s *simulation) run() error {
	for len(s.records) < len(s.arrivals) {
		kind, core, t, ok := s.nextEvent()
		if !ok {
			return fmt.Errorf("simulation stalled with %d of %d jobs completed",
				len(s.records), len(s.arrivals))
		}

		var err error
		switch kind {
		case evFinish:
			err = s.finish(core, t)
		case evQuantum:
			err = s.quantum(core, t)
		case evArrival:
			err = s.arrive(t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// nextEvent picks the earliest pending event. Core events beat arrivals at
// the same instant, lower core index first, and a completion beats a
// quantum expiry landing on the same tick.
func (s *simulation) nextEvent() (kind, core, t int, ok bool) {
	t = math.MaxInt
	kind, core = -1, -1

	for i, c := range s.cores {
		if c.jobID < 0 {
			continue
		}
		finishAt := c.dispatchedAt + s.remaining[c.jobID]
		if finishAt < t {
			kind, core, t = evFinish, i, finishAt
		}
		if s.opts.Quantum > 0 {
			quantumAt := c.dispatchedAt + s.opts.Quantum
			if quantumAt < finishAt && quantumAt < t {
				kind, core, t = evQuantum, i, quantumAt
			}
		}
	}

	if s.nextArrival < len(s.arrivals) {
		if at := s.arrivals[s.nextArrival].Arrival; kind == -1 || at < t {
			kind, core, t = evArrival, -1, at
		}
	}
	return kind, core, t, kind != -1
}

// arrive feeds the next arrival to the engine and applies its directive.
func (s *simulation) arrive(t int) error {
	spec := s.arrivals[s.nextArrival]
	s.nextArrival++

	core, err := s.engine.JobArrived(spec.ID, t, spec.Service, spec.Priority)
	if err != nil {
		return fmt.Errorf("arrival of job %d: %w", spec.ID, err)
	}
	if core == sched.NoChange {
		s.logger.Debug("arrival queued", "job_id", spec.ID, "time", t)
		return nil
	}

	// The engine put the arrival straight onto a core, possibly evicting
	// the current occupant.
	if victim := s.cores[core].jobID; victim >= 0 {
		s.remaining[victim] -= t - s.cores[core].dispatchedAt
		s.preemptions++
		s.logger.Debug("arrival preempted running job",
			"job_id", spec.ID, "victim_id", victim, "core", core, "time", t)
	}
	s.dispatch(spec.ID, core, t)
	return nil
}

// finish reports the completion of the job on core to the engine and
// dispatches whichever job the engine hands back.
func (s *simulation) finish(core, t int) error {
	id := s.cores[core].jobID
	next, err := s.engine.JobFinished(core, id, t)
	if err != nil {
		return fmt.Errorf("completion of job %d: %w", id, err)
	}

	spec := s.specs[id]
	s.records = append(s.records, model.JobRecord{
		JobID:      id,
		Arrival:    spec.Arrival,
		Service:    spec.Service,
		Priority:   spec.Priority,
		FirstStart: s.firstStart[id],
		Completion: t,
		Wait:       t - spec.Arrival - spec.Service,
		Turnaround: t - spec.Arrival,
		Response:   s.firstStart[id] - spec.Arrival,
	})
	s.remaining[id] = 0
	s.cores[core].jobID = -1

	if next != sched.NoJob {
		s.dispatch(next, core, t)
	}
	return nil
}

// quantum reports an expired round-robin slice and dispatches the engine's
// pick, which may be the same job again when nothing else waits.
func (s *simulation) quantum(core, t int) error {
	id := s.cores[core].jobID
	next, err := s.engine.QuantumExpired(core, t)
	if err != nil {
		return fmt.Errorf("quantum expiry on core %d: %w", core, err)
	}

	s.remaining[id] -= t - s.cores[core].dispatchedAt
	s.cores[core].jobID = -1

	if next != sched.NoJob {
		s.dispatch(next, core, t)
	}
	return nil
}

// dispatch records that the engine placed job id on core at t. A placement
// counts as the job's start only while it has consumed no CPU yet: a job
// preempted at the very instant it was dispatched ran for zero time, and its
// start moves to the later re-dispatch, matching the engine's response
// bookkeeping.
func (s *simulation) dispatch(id, core, t int) {
	if s.remaining[id] == s.specs[id].Service {
		s.firstStart[id] = t
	}
	s.cores[core] = coreState{jobID: id, dispatchedAt: t}
}

func (s *simulation) result() (*Result, error) {
	sort.Slice(s.records, func(i, j int) bool { return s.records[i].JobID < s.records[j].JobID })

	var wait, turnaround, response, makespan int
	for _, r := range s.records {
		wait += r.Wait
		turnaround += r.Turnaround
		response += r.Response
		if r.Completion > makespan {
			makespan = r.Completion
		}
	}
	n := float64(len(s.records))

	res := &Result{
		Policy:        s.opts.Policy,
		Cores:         s.opts.Cores,
		Quantum:       s.opts.Quantum,
		Jobs:          s.records,
		Makespan:      makespan,
		Preemptions:   s.preemptions,
		AvgWait:       s.engine.AverageWaitTime(),
		AvgTurnaround: s.engine.AverageTurnaroundTime(),
		AvgResponse:   s.engine.AverageResponseTime(),
	}

	// The engine accumulates the same sums at completion time; both sides
	// dividing identical integers must agree exactly.
	if res.AvgWait != float64(wait)/n ||
		res.AvgTurnaround != float64(turnaround)/n ||
		res.AvgResponse != float64(response)/n {
		return nil, fmt.Errorf("engine and driver metrics diverged: engine wait=%v turnaround=%v response=%v, driver wait=%v turnaround=%v response=%v",
			res.AvgWait, res.AvgTurnaround, res.AvgResponse,
			float64(wait)/n, float64(turnaround)/n, float64(response)/n)
	}
	return res, nil
}
