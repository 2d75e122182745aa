package server

import (
	"net/http"

	"github.com/me/schedsim/pkg/sched"
)

type policyInfo struct {
	Policy      string `json:"policy"`
	Description string `json:"description"`
	Preemptive  bool   `json:"preemptive"`
	UsesQuantum bool   `json:"uses_quantum"`
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	policies := make([]policyInfo, 0, len(sched.Policies()))
	for _, p := range sched.Policies() {
		policies = append(policies, policyInfo{
			Policy:      p.String(),
			Description: p.Description(),
			Preemptive:  p.Preemptive(),
			UsesQuantum: p == sched.PolicyRoundRobin,
		})
	}
	respondOK(w, reqID, policies)
}
