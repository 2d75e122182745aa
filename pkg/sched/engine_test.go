package sched

import (
	"errors"
	"testing"
)

// newTestEngine fails the test on construction errors so callers can chain.
func newTestEngine(t *testing.T, cores int, policy Policy) *Engine {
	t.Helper()
	e, err := New(cores, policy)
	if err != nil {
		t.Fatalf("New(%d, %s): %v", cores, policy, err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// arrive fails the test on error and returns the engine's core decision.
func arrive(t *testing.T, e *Engine, id, now, service, priority int) int {
	t.Helper()
	core, err := e.JobArrived(id, now, service, priority)
	if err != nil {
		t.Fatalf("JobArrived(job %d at %d): %v", id, now, err)
	}
	return core
}

// finish fails the test on error and returns the dispatched job ID.
func finish(t *testing.T, e *Engine, coreID, id, now int) int {
	t.Helper()
	next, err := e.JobFinished(coreID, id, now)
	if err != nil {
		t.Fatalf("JobFinished(core %d, job %d at %d): %v", coreID, id, now, err)
	}
	return next
}

func TestNewRejectsBadArguments(t *testing.T) {
	if _, err := New(0, PolicyFCFS); err == nil {
		t.Error("New with zero cores should fail")
	}
	if _, err := New(-3, PolicyFCFS); err == nil {
		t.Error("New with negative cores should fail")
	}
	if _, err := New(2, Policy("lottery")); err == nil {
		t.Error("New with unknown policy should fail")
	}
}

func TestArrivalPrefersLowestIdleCore(t *testing.T) {
	e := newTestEngine(t, 3, PolicyFCFS)

	if core := arrive(t, e, 1, 0, 5, 0); core != 0 {
		t.Errorf("first arrival on core %d, want 0", core)
	}
	if core := arrive(t, e, 2, 0, 5, 0); core != 1 {
		t.Errorf("second arrival on core %d, want 1", core)
	}

	// Free core 0 while core 1 stays busy: the next arrival takes 0 again.
	finish(t, e, 0, 1, 5)
	if core := arrive(t, e, 3, 5, 5, 0); core != 0 {
		t.Errorf("arrival after free on core %d, want 0", core)
	}
}

func TestFCFSDispatchesInArrivalOrder(t *testing.T) {
	e := newTestEngine(t, 1, PolicyFCFS)

	arrive(t, e, 1, 0, 4, 0)
	// Queued behind job 1 regardless of how short they are.
	arrive(t, e, 2, 1, 100, 0)
	arrive(t, e, 3, 2, 1, 0)

	if next := finish(t, e, 0, 1, 4); next != 2 {
		t.Errorf("dispatched job %d, want 2", next)
	}
	if next := finish(t, e, 0, 2, 104); next != 3 {
		t.Errorf("dispatched job %d, want 3", next)
	}
	if next := finish(t, e, 0, 3, 105); next != NoJob {
		t.Errorf("dispatched job %d from empty list, want NoJob", next)
	}
}

func TestSJFDispatchesShortestFirst(t *testing.T) {
	e := newTestEngine(t, 1, PolicySJF)

	arrive(t, e, 1, 0, 10, 0)
	arrive(t, e, 2, 1, 5, 0) // queued
	arrive(t, e, 3, 2, 3, 0) // queued, shorter
	arrive(t, e, 4, 3, 5, 0) // queued, ties with 2 on service

	if next := finish(t, e, 0, 1, 10); next != 3 {
		t.Errorf("dispatched job %d, want shortest job 3", next)
	}
	// Jobs 2 and 4 tie on remaining time; earlier arrival wins.
	if next := finish(t, e, 0, 3, 13); next != 2 {
		t.Errorf("dispatched job %d, want earlier-arrived job 2", next)
	}
	if next := finish(t, e, 0, 2, 18); next != 4 {
		t.Errorf("dispatched job %d, want job 4", next)
	}
}

func TestPriorityDispatchesLowestValueFirst(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPriority)

	arrive(t, e, 1, 0, 5, 9)
	arrive(t, e, 2, 1, 5, 4)
	arrive(t, e, 3, 2, 5, 2)
	arrive(t, e, 4, 3, 5, 4) // ties with 2

	if next := finish(t, e, 0, 1, 5); next != 3 {
		t.Errorf("dispatched job %d, want highest-priority job 3", next)
	}
	if next := finish(t, e, 0, 3, 10); next != 2 {
		t.Errorf("dispatched job %d, want earlier-arrived job 2", next)
	}
}

func TestPreemptiveSJFPreemptsOnStrictlyShorter(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptiveSJF)

	arrive(t, e, 1, 0, 10, 0)
	// At t=2 job 1 has 8 left; a 3-unit job is strictly shorter and takes
	// the core.
	if core := arrive(t, e, 2, 2, 3, 0); core != 0 {
		t.Fatalf("arrival decided core %d, want preemption of core 0", core)
	}

	// The victim's progress up to the preemption is retained.
	if next := finish(t, e, 0, 2, 5); next != 1 {
		t.Fatalf("dispatched job %d, want preempted job 1", next)
	}
	// Job 1 ran 0..2 before preemption, so it needs 8 more from t=5.
	if next := finish(t, e, 0, 1, 13); next != NoJob {
		t.Errorf("dispatched job %d, want NoJob", next)
	}
	if got := e.AverageTurnaroundTime(); got != (3.0+13.0)/2 {
		t.Errorf("average turnaround = %v, want %v", got, (3.0+13.0)/2)
	}
}

func TestPreemptiveSJFEqualRemainingDoesNotPreempt(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptiveSJF)

	arrive(t, e, 1, 0, 5, 0)
	// At t=2 job 1 has exactly 3 left. A 3-unit arrival ties and must queue.
	if core := arrive(t, e, 2, 2, 3, 0); core != NoChange {
		t.Errorf("equal-remaining arrival decided core %d, want NoChange", core)
	}
	if next := finish(t, e, 0, 1, 5); next != 2 {
		t.Errorf("dispatched job %d, want queued job 2", next)
	}
}

func TestPreemptiveSJFVictimAccountsElapsedRunTime(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptiveSJF)

	arrive(t, e, 1, 0, 10, 0)
	// At t=7 job 1 has 3 left. A service-5 arrival looks shorter than the
	// original 10 but not than the live remaining, so it queues.
	if core := arrive(t, e, 2, 7, 5, 0); core != NoChange {
		t.Errorf("arrival decided core %d, want NoChange", core)
	}
}

func TestPreemptiveSJFVictimIsLongestRemaining(t *testing.T) {
	e := newTestEngine(t, 2, PolicyPreemptiveSJF)

	arrive(t, e, 1, 0, 4, 0)
	arrive(t, e, 2, 0, 9, 0)
	// Core 1 holds the most remaining work.
	if core := arrive(t, e, 3, 1, 2, 0); core != 1 {
		t.Errorf("preempted core %d, want core 1", core)
	}
}

func TestPreemptiveVictimTieGoesToLatestArrival(t *testing.T) {
	e := newTestEngine(t, 2, PolicyPreemptivePriority)

	arrive(t, e, 1, 0, 10, 5)
	arrive(t, e, 2, 1, 10, 5)
	// Both occupants carry priority 5; the later-arrived one on core 1
	// yields.
	if core := arrive(t, e, 3, 2, 5, 1); core != 1 {
		t.Errorf("preempted core %d, want later-arrived occupant on core 1", core)
	}
}

func TestPreemptivePriorityPreemptsOnStrictlyBetter(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptivePriority)

	arrive(t, e, 1, 0, 10, 5)
	if core := arrive(t, e, 2, 2, 4, 2); core != 0 {
		t.Fatalf("arrival decided core %d, want preemption of core 0", core)
	}
	if next := finish(t, e, 0, 2, 6); next != 1 {
		t.Errorf("dispatched job %d, want preempted job 1", next)
	}
}

func TestPreemptivePriorityEqualDoesNotPreempt(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptivePriority)

	arrive(t, e, 1, 0, 10, 5)
	if core := arrive(t, e, 2, 2, 1, 5); core != NoChange {
		t.Errorf("equal-priority arrival decided core %d, want NoChange", core)
	}
	if core := arrive(t, e, 3, 3, 1, 7); core != NoChange {
		t.Errorf("worse-priority arrival decided core %d, want NoChange", core)
	}
}

func TestRoundRobinRotation(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)

	arrive(t, e, 1, 0, 6, 0)
	arrive(t, e, 2, 1, 6, 0)

	// Quantum expiry swaps the runner for the queued job.
	next, err := e.QuantumExpired(0, 3)
	if err != nil {
		t.Fatalf("QuantumExpired: %v", err)
	}
	if next != 2 {
		t.Errorf("after expiry job %d runs, want 2", next)
	}

	// And back again.
	next, err = e.QuantumExpired(0, 6)
	if err != nil {
		t.Fatalf("QuantumExpired: %v", err)
	}
	if next != 1 {
		t.Errorf("after second expiry job %d runs, want 1", next)
	}
}

func TestRoundRobinSoleJobKeepsCore(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)

	arrive(t, e, 1, 0, 10, 0)
	next, err := e.QuantumExpired(0, 3)
	if err != nil {
		t.Fatalf("QuantumExpired: %v", err)
	}
	if next != 1 {
		t.Errorf("sole job: expiry dispatched job %d, want the same job 1", next)
	}
	// Its accumulated run time survives the requeue round-trip.
	if next := finish(t, e, 0, 1, 10); next != NoJob {
		t.Errorf("dispatched job %d, want NoJob", next)
	}
	if got := e.AverageWaitTime(); got != 0 {
		t.Errorf("average wait = %v, want 0 for an uninterrupted job", got)
	}
}

func TestQuantumExpiryRequeuesAtBack(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)

	arrive(t, e, 1, 0, 9, 0)
	arrive(t, e, 2, 1, 9, 0)
	arrive(t, e, 3, 2, 9, 0)

	// Job 1 yields behind both waiters.
	next, err := e.QuantumExpired(0, 3)
	if err != nil {
		t.Fatalf("QuantumExpired: %v", err)
	}
	if next != 2 {
		t.Errorf("after expiry job %d runs, want 2", next)
	}
	if got, want := e.QueueDump(), "2(0) 3(-1) 1(-1)"; got != want {
		t.Errorf("QueueDump() = %q, want %q", got, want)
	}
}

func TestResponseRecordedOnFirstPlacementOnly(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)

	arrive(t, e, 1, 0, 4, 0)
	arrive(t, e, 2, 1, 4, 0) // first placed at t=3: response 2

	if _, err := e.QuantumExpired(0, 3); err != nil {
		t.Fatalf("QuantumExpired: %v", err)
	}
	if _, err := e.QuantumExpired(0, 6); err != nil { // job 1 back on, response still 0
		t.Fatalf("QuantumExpired: %v", err)
	}

	finish(t, e, 0, 1, 7)
	if got := e.AverageResponseTime(); got != 0 {
		t.Errorf("average response = %v, want 0 (job 1 started immediately)", got)
	}
	// Job 2 resumes at t=7, finishes at t=8.
	finish(t, e, 0, 2, 8)
	if got := e.AverageResponseTime(); got != 1.0 {
		t.Errorf("average response = %v, want mean of 0 and 2", got)
	}
}

func TestResponseMovesWhenPreemptedBeforeRunning(t *testing.T) {
	e := newTestEngine(t, 1, PolicyPreemptiveSJF)

	arrive(t, e, 1, 0, 4, 0)
	arrive(t, e, 2, 1, 5, 0) // queued behind the shorter job 1

	// Job 1 completes at t=4 and job 2 takes the core, but a 2-unit job
	// arrives at the same instant and evicts it before it runs at all.
	if next := finish(t, e, 0, 1, 4); next != 2 {
		t.Fatalf("dispatched job %d, want 2", next)
	}
	if core := arrive(t, e, 3, 4, 2, 0); core != 0 {
		t.Fatalf("arrival decided core %d, want preemption of core 0", core)
	}

	if next := finish(t, e, 0, 3, 6); next != 2 {
		t.Fatalf("dispatched job %d, want job 2 back", next)
	}
	finish(t, e, 0, 2, 11)

	// Job 2's zero-length occupancy at t=4 does not count as its start: its
	// response is measured from the t=6 re-dispatch, so the mean over
	// responses 0, 5, 0 is 5/3.
	if got := e.AverageResponseTime(); got != 5.0/3 {
		t.Errorf("average response = %v, want %v", got, 5.0/3)
	}
}

func TestAverages(t *testing.T) {
	e := newTestEngine(t, 1, PolicyFCFS)

	if e.AverageWaitTime() != 0 || e.AverageTurnaroundTime() != 0 || e.AverageResponseTime() != 0 {
		t.Error("averages with no completed jobs should all be 0")
	}

	// Three solo jobs with waits 2, 4, 6 imposed by late completions.
	arrive(t, e, 1, 0, 5, 0)
	finish(t, e, 0, 1, 7)
	arrive(t, e, 2, 10, 5, 0)
	finish(t, e, 0, 2, 19)
	arrive(t, e, 3, 20, 5, 0)
	finish(t, e, 0, 3, 31)

	if got := e.AverageWaitTime(); got != 4.0 {
		t.Errorf("average wait = %v, want 4.0", got)
	}
	if got := e.AverageTurnaroundTime(); got != 9.0 {
		t.Errorf("average turnaround = %v, want 9.0", got)
	}

	// Pure reads: asking twice changes nothing.
	if first, second := e.AverageWaitTime(), e.AverageWaitTime(); first != second {
		t.Errorf("repeated reads diverged: %v then %v", first, second)
	}
}

func TestJobFinishedValidation(t *testing.T) {
	e := newTestEngine(t, 2, PolicyFCFS)
	arrive(t, e, 1, 0, 5, 0)

	if _, err := e.JobFinished(5, 1, 5); !errors.Is(err, ErrUnknownCore) {
		t.Errorf("out-of-range core: got %v, want ErrUnknownCore", err)
	}
	if _, err := e.JobFinished(-1, 1, 5); !errors.Is(err, ErrUnknownCore) {
		t.Errorf("negative core: got %v, want ErrUnknownCore", err)
	}
	if _, err := e.JobFinished(1, 1, 5); !errors.Is(err, ErrIdleCore) {
		t.Errorf("idle core: got %v, want ErrIdleCore", err)
	}
	if _, err := e.JobFinished(0, 99, 5); !errors.Is(err, ErrWrongJob) {
		t.Errorf("wrong occupant: got %v, want ErrWrongJob", err)
	}

	// A failed call leaves the engine intact.
	if next := finish(t, e, 0, 1, 5); next != NoJob {
		t.Errorf("dispatched job %d, want NoJob", next)
	}
}

func TestQuantumExpiredOutsideRoundRobin(t *testing.T) {
	for _, policy := range []Policy{PolicyFCFS, PolicySJF, PolicyPreemptiveSJF, PolicyPriority, PolicyPreemptivePriority} {
		e := newTestEngine(t, 1, policy)
		arrive(t, e, 1, 0, 5, 0)
		if _, err := e.QuantumExpired(0, 2); !errors.Is(err, ErrNotRoundRobin) {
			t.Errorf("%s: got %v, want ErrNotRoundRobin", policy, err)
		}
	}
}

func TestQuantumExpiredValidation(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)
	if _, err := e.QuantumExpired(0, 1); !errors.Is(err, ErrIdleCore) {
		t.Errorf("idle core: got %v, want ErrIdleCore", err)
	}
	if _, err := e.QuantumExpired(3, 1); !errors.Is(err, ErrUnknownCore) {
		t.Errorf("unknown core: got %v, want ErrUnknownCore", err)
	}
}

func TestClosedEngineRejectsEverything(t *testing.T) {
	e := newTestEngine(t, 1, PolicyRoundRobin)
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := e.JobArrived(1, 0, 5, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("JobArrived after close: got %v, want ErrClosed", err)
	}
	if _, err := e.JobFinished(0, 1, 5); !errors.Is(err, ErrClosed) {
		t.Errorf("JobFinished after close: got %v, want ErrClosed", err)
	}
	if _, err := e.QuantumExpired(0, 5); !errors.Is(err, ErrClosed) {
		t.Errorf("QuantumExpired after close: got %v, want ErrClosed", err)
	}
}

func TestQueueDump(t *testing.T) {
	e := newTestEngine(t, 2, PolicySJF)

	if got := e.QueueDump(); got != "" {
		t.Errorf("QueueDump() on idle engine = %q, want empty", got)
	}

	arrive(t, e, 1, 0, 5, 0)
	arrive(t, e, 2, 0, 5, 0)
	arrive(t, e, 3, 1, 9, 0)
	arrive(t, e, 4, 2, 2, 0)

	// Running in core order, then waiting in dispatch order.
	if got, want := e.QueueDump(), "1(0) 2(1) 4(-1) 3(-1)"; got != want {
		t.Errorf("QueueDump() = %q, want %q", got, want)
	}
}
