package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/schedsim/pkg/model"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var policyFilter string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, total, err := st.ListRuns(context.Background(), model.ListOptions{
				Limit:  limit,
				Policy: policyFilter,
			})
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			fmt.Printf("%-41s  %-20s  %-5s  %5s  %4s  %8s  %s\n",
				"ID", "WORKLOAD", "POLICY", "CORES", "JOBS", "AVG WAIT", "CREATED")
			for _, r := range runs {
				fmt.Printf("%-41s  %-20s  %-5s  %5d  %4d  %8.2f  %s\n",
					r.ID, r.WorkloadName, r.Policy, r.Cores, r.JobCount,
					r.AvgWait, humanize.Time(r.CreatedAt))
			}

			if len(runs) < total {
				fmt.Printf("\n(%d of %d shown)\n", len(runs), total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&policyFilter, "policy", "p", "", "Only show runs under this policy")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}
