package sched

import "testing"

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "fcfs", want: PolicyFCFS},
		{in: "fifo", want: PolicyFCFS},
		{in: "rr", want: PolicyRoundRobin},
		{in: "round-robin", want: PolicyRoundRobin},
		{in: "roundrobin", want: PolicyRoundRobin},
		{in: "sjf", want: PolicySJF},
		{in: "psjf", want: PolicyPreemptiveSJF},
		{in: "preemptive-sjf", want: PolicyPreemptiveSJF},
		{in: "pri", want: PolicyPriority},
		{in: "priority", want: PolicyPriority},
		{in: "ppri", want: PolicyPreemptivePriority},
		{in: "preemptive-priority", want: PolicyPreemptivePriority},
		{in: "", wantErr: true},
		{in: "FCFS", wantErr: true},
		{in: "shortest", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePolicy(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePolicy(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolicyValid(t *testing.T) {
	for _, p := range Policies() {
		if !p.Valid() {
			t.Errorf("Policy %q reported invalid", p)
		}
	}
	for _, p := range []Policy{"", "fifo", "PSJF", "lottery"} {
		if p.Valid() {
			t.Errorf("Policy %q reported valid", p)
		}
	}
}

func TestPolicyPreemptive(t *testing.T) {
	preemptive := map[Policy]bool{
		PolicyPreemptiveSJF:      true,
		PolicyPreemptivePriority: true,
	}
	for _, p := range Policies() {
		if got := p.Preemptive(); got != preemptive[p] {
			t.Errorf("%s.Preemptive() = %v, want %v", p, got, preemptive[p])
		}
	}
}

func TestPolicyDescriptionCoversAll(t *testing.T) {
	for _, p := range Policies() {
		if p.Description() == "unknown" {
			t.Errorf("policy %q has no description", p)
		}
	}
	if Policy("bogus").Description() != "unknown" {
		t.Error("unrecognized policy should describe as unknown")
	}
}

func TestCompareRemainingUsesLiveRemaining(t *testing.T) {
	a := &Job{ID: 1, ArrivalTime: 0, ServiceTime: 10}
	b := &Job{ID: 2, ArrivalTime: 5, ServiceTime: 6}

	if compareRemaining(a, b) <= 0 {
		t.Error("job needing 10 should rank after job needing 6")
	}

	// After a accumulates used time its remaining shrinks below b's.
	a.used = 7
	if compareRemaining(a, b) >= 0 {
		t.Error("job with 3 remaining should rank before job with 6 remaining")
	}
}

func TestCompareTiesBreakByArrival(t *testing.T) {
	early := &Job{ID: 1, ArrivalTime: 1, ServiceTime: 5, Priority: 3}
	late := &Job{ID: 2, ArrivalTime: 9, ServiceTime: 5, Priority: 3}

	if compareRemaining(early, late) >= 0 {
		t.Error("equal remaining: earlier arrival should rank first")
	}
	if comparePriority(early, late) >= 0 {
		t.Error("equal priority: earlier arrival should rank first")
	}
}

func TestCompareArrivalOrderNeverReorders(t *testing.T) {
	a := &Job{ID: 1, ArrivalTime: 9, ServiceTime: 1, Priority: 0}
	b := &Job{ID: 2, ArrivalTime: 0, ServiceTime: 100, Priority: 50}
	if compareArrivalOrder(a, b) != 0 || compareArrivalOrder(b, a) != 0 {
		t.Error("fcfs/rr comparison must always report equal")
	}
}
