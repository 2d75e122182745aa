package sched

import "fmt"

// Policy identifies one of the six supported scheduling disciplines.
type Policy string

const (
	PolicyFCFS               Policy = "fcfs"
	PolicyRoundRobin         Policy = "rr"
	PolicySJF                Policy = "sjf"
	PolicyPreemptiveSJF      Policy = "psjf"
	PolicyPriority           Policy = "pri"
	PolicyPreemptivePriority Policy = "ppri"
)

// Policies returns all supported policies in a stable order.
func Policies() []Policy {
	return []Policy{
		PolicyFCFS,
		PolicyRoundRobin,
		PolicySJF,
		PolicyPreemptiveSJF,
		PolicyPriority,
		PolicyPreemptivePriority,
	}
}

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// Valid returns true if p is one of the six supported policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyFCFS, PolicyRoundRobin, PolicySJF, PolicyPreemptiveSJF,
		PolicyPriority, PolicyPreemptivePriority:
		return true
	}
	return false
}

// Preemptive returns true for the policies that may evict a running job
// when a new one arrives. Round-robin is quantum-based, not
// arrival-preemptive, so it is not counted here.
func (p Policy) Preemptive() bool {
	return p == PolicyPreemptiveSJF || p == PolicyPreemptivePriority
}

// Description returns a short human-readable name, for CLI and API listings.
func (p Policy) Description() string {
	switch p {
	case PolicyFCFS:
		return "first-come-first-served"
	case PolicyRoundRobin:
		return "round-robin"
	case PolicySJF:
		return "shortest-job-first"
	case PolicyPreemptiveSJF:
		return "preemptive shortest-job-first"
	case PolicyPriority:
		return "priority"
	case PolicyPreemptivePriority:
		return "preemptive priority"
	}
	return "unknown"
}

// ParsePolicy converts a string to a Policy, accepting a few common
// spellings. Unrecognized values return an error.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fcfs", "fifo":
		return PolicyFCFS, nil
	case "rr", "round-robin", "roundrobin":
		return PolicyRoundRobin, nil
	case "sjf":
		return PolicySJF, nil
	case "psjf", "preemptive-sjf":
		return PolicyPreemptiveSJF, nil
	case "pri", "priority":
		return PolicyPriority, nil
	case "ppri", "preemptive-priority":
		return PolicyPreemptivePriority, nil
	}
	return "", fmt.Errorf("unknown policy %q", s)
}

// compareFunc returns the ordering rule the waiting list uses under p.
func (p Policy) compareFunc() func(a, b *Job) int {
	switch p {
	case PolicySJF, PolicyPreemptiveSJF:
		return compareRemaining
	case PolicyPriority, PolicyPreemptivePriority:
		return comparePriority
	default:
		return compareArrivalOrder
	}
}

// compareArrivalOrder never reorders: every insertion stays at the back, so
// the waiting list preserves arrival (and requeue) order. Used by fcfs and rr.
func compareArrivalOrder(a, b *Job) int {
	return 0
}

// compareRemaining ranks by remaining service time ascending, ties broken
// by earlier arrival. Used by sjf and psjf; remaining time is evaluated at
// comparison time, so it shrinks as a job accumulates used time.
func compareRemaining(a, b *Job) int {
	if a.Remaining() == b.Remaining() {
		return a.ArrivalTime - b.ArrivalTime
	}
	return a.Remaining() - b.Remaining()
}

// comparePriority ranks by priority value ascending (lower value = higher
// priority), ties broken by earlier arrival. Used by pri and ppri.
func comparePriority(a, b *Job) int {
	if a.Priority == b.Priority {
		return a.ArrivalTime - b.ArrivalTime
	}
	return a.Priority - b.Priority
}
