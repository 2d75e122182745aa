package cli

import (
	"fmt"

	"github.com/me/schedsim/pkg/sched"
	"github.com/spf13/cobra"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the supported scheduling policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-6s  %-32s  %-10s  %s\n", "TAG", "NAME", "PREEMPTIVE", "QUANTUM")
			for _, p := range sched.Policies() {
				preemptive, quantum := "no", "no"
				if p.Preemptive() {
					preemptive = "on arrival"
				}
				if p == sched.PolicyRoundRobin {
					quantum = "yes"
				}
				fmt.Printf("%-6s  %-32s  %-10s  %s\n", p, p.Description(), preemptive, quantum)
			}
			return nil
		},
	}
}
