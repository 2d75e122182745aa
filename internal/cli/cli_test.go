package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/me/schedsim/pkg/model"
)

func TestPrintRun(t *testing.T) {
	run := &model.Run{
		ID:           "run_x",
		WorkloadName: "mixed-burst",
		Policy:       "rr",
		Cores:        1,
		Quantum:      2,
		JobCount:     2,
		Makespan:     8,

		AvgWait:       2.5,
		AvgTurnaround: 6.5,
		AvgResponse:   0.5,

		Jobs: []model.JobRecord{
			{JobID: 1, Arrival: 0, Service: 4, FirstStart: 0, Completion: 6, Wait: 2, Turnaround: 6},
			{JobID: 2, Arrival: 1, Service: 4, FirstStart: 2, Completion: 8, Wait: 3, Turnaround: 7, Response: 1},
		},
		CreatedAt: time.Now(),
	}

	var b strings.Builder
	printRun(&b, run)
	out := b.String()

	for _, want := range []string{
		"workload: mixed-burst",
		"policy: rr",
		"quantum: 2",
		"JOB", "TURNAROUND",
		"makespan: 8",
		"avg wait: 2.50",
		"avg turnaround: 6.50",
		"avg response: 0.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// One header line, one line per job.
	if got := strings.Count(out, "\n"); got != 8 {
		t.Errorf("output has %d lines, want 8:\n%s", got, out)
	}
}

func TestPrintRunOmitsQuantumWhenUnset(t *testing.T) {
	run := &model.Run{WorkloadName: "w", Policy: "fcfs", Cores: 1}

	var b strings.Builder
	printRun(&b, run)
	if strings.Contains(b.String(), "quantum") {
		t.Errorf("fcfs output mentions a quantum:\n%s", b.String())
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "a", "b"); got != "a" {
		t.Errorf("firstNonEmpty = %q, want a", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty of empties = %q, want empty", got)
	}
}

func TestFirstPositive(t *testing.T) {
	if got := firstPositive(0, 3, 1); got != 3 {
		t.Errorf("firstPositive = %d, want 3", got)
	}
	// Falls through to the last value, even zero.
	if got := firstPositive(0, 0, 0); got != 0 {
		t.Errorf("firstPositive of zeros = %d, want 0", got)
	}
}

func TestNewRootCmdWiresSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{"run": false, "list": false, "show": false, "policies": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
