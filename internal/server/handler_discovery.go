package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "schedsim API",
		Version:     "v1",
		Description: "CPU-scheduling simulator: run workloads through the six scheduling policies and inspect the results",
		Endpoints: []endpointInfo{
			{"/api/v1/policies", []string{"GET"}, "List the supported scheduling policies"},
			{"/api/v1/runs", []string{"GET", "POST"}, "Recorded simulation runs. POST simulates a workload and records the result"},
			{"/api/v1/runs/{id}", []string{"GET", "DELETE"}, "Single run detail with per-job records"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
