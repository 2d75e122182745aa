package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/me/schedsim/internal/sim"
	"github.com/me/schedsim/internal/workload"
	"github.com/me/schedsim/pkg/model"
	"github.com/me/schedsim/pkg/sched"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		policyFlag  string
		coresFlag   int
		quantumFlag int
		format      string
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "run <workload.yaml>",
		Short: "Simulate a workload and report scheduling metrics",
		Long: `Replays the jobs of a workload file through the scheduling engine and
prints per-job timings plus average wait, turnaround, and response time.
Flags override the workload file's own defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workload.Load(args[0])
			if err != nil {
				return err
			}

			policyStr := firstNonEmpty(policyFlag, w.Defaults.Policy, sched.PolicyFCFS.String())
			policy, err := sched.ParsePolicy(policyStr)
			if err != nil {
				return err
			}
			cores := firstPositive(coresFlag, w.Defaults.Cores, 1)
			quantum := firstPositive(quantumFlag, w.Defaults.Quantum, 0)

			result, err := sim.Run(w.Jobs, sim.Options{
				Cores:   cores,
				Policy:  policy,
				Quantum: quantum,
			}, logger)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}

			run := &model.Run{
				ID:            "run_" + uuid.New().String(),
				WorkloadName:  w.Name,
				Policy:        result.Policy.String(),
				Cores:         result.Cores,
				Quantum:       result.Quantum,
				JobCount:      len(result.Jobs),
				Makespan:      result.Makespan,
				AvgWait:       result.AvgWait,
				AvgTurnaround: result.AvgTurnaround,
				AvgResponse:   result.AvgResponse,
				Jobs:          result.Jobs,
				CreatedAt:     time.Now().UTC(),
			}

			if !noSave && flagDB != "" {
				st, err := openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.CreateRun(context.Background(), run); err != nil {
					return fmt.Errorf("record run: %w", err)
				}
				logger.Info("run recorded", "run_id", run.ID)
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			default:
				printRun(os.Stdout, run)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "Scheduling policy (fcfs, rr, sjf, psjf, pri, ppri)")
	cmd.Flags().IntVarP(&coresFlag, "cores", "c", 0, "Number of cores (default from workload, else 1)")
	cmd.Flags().IntVarP(&quantumFlag, "quantum", "q", 0, "Round-robin time slice")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the run in the database")

	return cmd
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstPositive returns the first value greater than zero, or the last
// value as the fallback.
func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return vals[len(vals)-1]
}
