// Package sched implements a pluggable CPU-scheduling decision engine.
//
// The engine is driven entirely by an external simulator that owns
// simulated time: on every event (job arrival, job completion, quantum
// expiry) the simulator calls the matching engine method, passing the
// current time, and the engine answers synchronously with a scheduling
// directive. The engine performs no I/O, holds no goroutines, and never
// blocks.
//
// Engines assume strictly serialized calls. An embedding that drives one
// engine from multiple goroutines must guard every call with a single
// mutex.
package sched

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/me/schedsim/pkg/waitlist"
)

const (
	// NoChange means an arrival caused no scheduling change: the job was
	// queued and every core keeps its current occupant.
	NoChange = -1
	// NoJob means the freed core should remain idle: the waiting list was
	// empty.
	NoJob = -1
)

// Contract violations. The engine trusts its caller under the documented
// preconditions; these errors indicate a driver bug, and the engine never
// mutates state on a call that fails with one of them.
var (
	ErrClosed        = errors.New("engine is closed")
	ErrUnknownCore   = errors.New("core index out of range")
	ErrIdleCore      = errors.New("core is idle")
	ErrWrongJob      = errors.New("job does not occupy core")
	ErrNotRoundRobin = errors.New("quantum expiry outside round-robin")
)

// Engine decides which job occupies which core under one of the six
// scheduling policies. Construct with New; multiple engines may coexist.
type Engine struct {
	policy Policy
	cores  []*Job // nil slot = idle core
	queue  *waitlist.List[*Job]
	logger *slog.Logger
	closed bool

	// Running totals over completed jobs.
	totalWait       int
	totalTurnaround int
	totalResponse   int
	completed       int
}

// Option configures optional Engine dependencies.
type Option func(*Engine)

// WithLogger sets the logger the engine emits debug events to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With("component", "engine")
	}
}

// New creates an engine managing the given number of cores under policy.
// The policy's comparison rule is resolved here, once, and held for the
// engine's lifetime.
func New(cores int, policy Policy, opts ...Option) (*Engine, error) {
	if cores < 1 {
		return nil, fmt.Errorf("core count must be positive, got %d", cores)
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown policy %q", policy)
	}

	e := &Engine{
		policy: policy,
		cores:  make([]*Job, cores),
		queue:  waitlist.New(policy.compareFunc()),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the scheduling policy the engine was constructed with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// CoreCount returns the number of cores the engine manages.
func (e *Engine) CoreCount() int {
	return len(e.cores)
}

// JobArrived notifies the engine that a new job became schedulable at now.
// It returns the index of the core the job should start on immediately, or
// NoChange if the job was placed in the waiting list instead.
//
// An idle core (lowest index first) always wins. With all cores busy, the
// preemptive policies may evict a running job: psjf evicts the job with the
// greatest remaining time when the arrival's service time is strictly
// smaller, ppri evicts the job with the numerically greatest priority when
// the arrival's priority is strictly smaller. Ties among candidate victims
// go to the most recently arrived. Everything else queues.
func (e *Engine) JobArrived(id, now, serviceTime, priority int) (int, error) {
	if e.closed {
		return NoChange, ErrClosed
	}

	job := &Job{
		ID:          id,
		ArrivalTime: now,
		Priority:    priority,
		ServiceTime: serviceTime,
	}

	if core := e.idleCore(); core != NoChange {
		e.place(job, core, now)
		e.logger.Debug("job arrived on idle core", "job_id", id, "core", core, "time", now)
		return core, nil
	}

	switch e.policy {
	case PolicyPreemptiveSJF:
		core := e.longestRemainingCore()
		victim := e.cores[core]
		// Remaining time as of now: the victim's last flushed remaining
		// minus however long it has been running since.
		remaining := victim.Remaining() - (now - victim.lastStart)
		if job.ServiceTime < remaining {
			e.preempt(job, core, now)
			return core, nil
		}
	case PolicyPreemptivePriority:
		core := e.worstPriorityCore()
		victim := e.cores[core]
		// Strictly better only: an equal-priority arrival does not preempt.
		if job.Priority < victim.Priority {
			e.preempt(job, core, now)
			return core, nil
		}
	}

	idx := e.queue.Insert(job)
	e.logger.Debug("job queued", "job_id", id, "queue_index", idx, "time", now)
	return NoChange, nil
}

// JobFinished notifies the engine that the job occupying coreID completed
// at now. The completed job's statistics are folded into the running
// totals and the job is released. It returns the ID of the waiting job
// that should start on the freed core, or NoJob to leave it idle.
func (e *Engine) JobFinished(coreID, id, now int) (int, error) {
	if e.closed {
		return NoJob, ErrClosed
	}
	done, err := e.occupant(coreID)
	if err != nil {
		return NoJob, err
	}
	if done.ID != id {
		return NoJob, fmt.Errorf("core %d runs job %d, not %d: %w", coreID, done.ID, id, ErrWrongJob)
	}

	e.cores[coreID] = nil
	e.completed++
	e.totalWait += now - done.ArrivalTime - done.ServiceTime
	e.totalTurnaround += now - done.ArrivalTime
	e.totalResponse += done.response
	e.logger.Debug("job finished", "job_id", id, "core", coreID, "time", now,
		"turnaround", now-done.ArrivalTime)

	return e.dispatch(coreID, now), nil
}

// QuantumExpired notifies the engine that the round-robin time slice for
// coreID ran out at now. The current occupant is returned to the back of
// the waiting list and the front of the list is dispatched; when nothing
// else is waiting that front is the job that just yielded, which simply
// keeps its core. Returns the ID of the job to run next, or NoJob.
func (e *Engine) QuantumExpired(coreID, now int) (int, error) {
	if e.closed {
		return NoJob, ErrClosed
	}
	if e.policy != PolicyRoundRobin {
		return NoJob, fmt.Errorf("policy %s: %w", e.policy, ErrNotRoundRobin)
	}
	old, err := e.occupant(coreID)
	if err != nil {
		return NoJob, err
	}

	old.used += now - old.lastStart
	e.cores[coreID] = nil
	e.queue.Insert(old)
	e.logger.Debug("quantum expired", "job_id", old.ID, "core", coreID, "time", now)

	return e.dispatch(coreID, now), nil
}

// AverageWaitTime returns the mean wait time over all completed jobs, or 0
// when none have completed. Wait time is turnaround minus service time.
func (e *Engine) AverageWaitTime() float64 {
	return e.average(e.totalWait)
}

// AverageTurnaroundTime returns the mean arrival-to-completion time over
// all completed jobs, or 0 when none have completed.
func (e *Engine) AverageTurnaroundTime() float64 {
	return e.average(e.totalTurnaround)
}

// AverageResponseTime returns the mean arrival-to-start time over all
// completed jobs, or 0 when none have completed. A job's start is the
// placement it first actually runs from.
func (e *Engine) AverageResponseTime() float64 {
	return e.average(e.totalResponse)
}

// Close releases everything the engine owns. The engine is unusable
// afterwards: every event call fails with ErrClosed. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.cores = nil
	e.queue = nil
	e.logger.Debug("engine closed", "completed_jobs", e.completed)
	return nil
}

// QueueDump renders the engine's occupancy for debugging: each job as
// "id(core)", running jobs first in core order, then waiting jobs in
// dispatch order with core -1. Purely observational.
func (e *Engine) QueueDump() string {
	if e.closed {
		return ""
	}
	var b strings.Builder
	for core, job := range e.cores {
		if job == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d(%d)", job.ID, core)
	}
	for i := 0; ; i++ {
		job, ok := e.queue.At(i)
		if !ok {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d(-1)", job.ID)
	}
	return b.String()
}

// place puts job on core at now. While the job has consumed no CPU its
// response is (re-)recorded: a placement it was evicted from after zero run
// time does not count as its start.
func (e *Engine) place(job *Job, core, now int) {
	if job.used == 0 {
		job.response = now - job.ArrivalTime
	}
	job.lastStart = now
	e.cores[core] = job
}

// preempt evicts the occupant of core in favor of job: the victim's used
// time is flushed and it moves to the waiting list.
func (e *Engine) preempt(job *Job, core, now int) {
	victim := e.cores[core]
	victim.used += now - victim.lastStart
	e.queue.Insert(victim)
	e.place(job, core, now)
	e.logger.Debug("job preempted", "job_id", job.ID, "victim_id", victim.ID,
		"core", core, "time", now)
}

// dispatch polls the waiting list onto the freed core. Returns the
// dispatched job's ID, or NoJob when the list is empty.
func (e *Engine) dispatch(coreID, now int) int {
	next, ok := e.queue.PollFront()
	if !ok {
		return NoJob
	}
	e.place(next, coreID, now)
	e.logger.Debug("job dispatched", "job_id", next.ID, "core", coreID, "time", now)
	return next.ID
}

// idleCore returns the lowest-indexed idle core, or NoChange if all are
// occupied.
func (e *Engine) idleCore() int {
	for i, job := range e.cores {
		if job == nil {
			return i
		}
	}
	return NoChange
}

// longestRemainingCore returns the core whose occupant has the greatest
// remaining time, preferring the most recently arrived on ties. All cores
// are occupied when this is called.
func (e *Engine) longestRemainingCore() int {
	core := 0
	for i := 1; i < len(e.cores); i++ {
		best, cand := e.cores[core], e.cores[i]
		if cand.Remaining() > best.Remaining() ||
			(cand.Remaining() == best.Remaining() && cand.ArrivalTime > best.ArrivalTime) {
			core = i
		}
	}
	return core
}

// worstPriorityCore returns the core whose occupant has the numerically
// greatest (worst) priority, preferring the most recently arrived on ties.
// All cores are occupied when this is called.
func (e *Engine) worstPriorityCore() int {
	core := 0
	for i := 1; i < len(e.cores); i++ {
		best, cand := e.cores[core], e.cores[i]
		if cand.Priority > best.Priority ||
			(cand.Priority == best.Priority && cand.ArrivalTime > best.ArrivalTime) {
			core = i
		}
	}
	return core
}

// occupant returns the job running on coreID, validating the core index
// and that the core is not idle.
func (e *Engine) occupant(coreID int) (*Job, error) {
	if coreID < 0 || coreID >= len(e.cores) {
		return nil, fmt.Errorf("core %d of %d: %w", coreID, len(e.cores), ErrUnknownCore)
	}
	job := e.cores[coreID]
	if job == nil {
		return nil, fmt.Errorf("core %d: %w", coreID, ErrIdleCore)
	}
	return job, nil
}

func (e *Engine) average(total int) float64 {
	if e.completed == 0 {
		return 0
	}
	return float64(total) / float64(e.completed)
}
