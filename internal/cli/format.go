package cli

import (
	"fmt"
	"io"

	"github.com/me/schedsim/pkg/model"
)

// printRun renders a run as a per-job table followed by the aggregates.
// All times are simulated time units.
func printRun(w io.Writer, run *model.Run) {
	fmt.Fprintf(w, "workload: %s   policy: %s   cores: %d", run.WorkloadName, run.Policy, run.Cores)
	if run.Quantum > 0 {
		fmt.Fprintf(w, "   quantum: %d", run.Quantum)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%6s  %8s  %8s  %9s  %6s  %7s  %5s  %11s  %9s\n",
		"JOB", "ARRIVAL", "SERVICE", "PRIORITY", "START", "FINISH", "WAIT", "TURNAROUND", "RESPONSE")
	for _, j := range run.Jobs {
		fmt.Fprintf(w, "%6d  %8d  %8d  %9d  %6d  %7d  %5d  %11d  %9d\n",
			j.JobID, j.Arrival, j.Service, j.Priority,
			j.FirstStart, j.Completion, j.Wait, j.Turnaround, j.Response)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "jobs: %d   makespan: %d\n", run.JobCount, run.Makespan)
	fmt.Fprintf(w, "avg wait: %.2f   avg turnaround: %.2f   avg response: %.2f\n",
		run.AvgWait, run.AvgTurnaround, run.AvgResponse)
}
