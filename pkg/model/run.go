package model

import "time"

// Run is one recorded simulation: a workload executed under a policy on a
// fixed number of cores, with the resulting per-job records and aggregate
// metrics.
type Run struct {
	ID           string    `json:"id"`
	WorkloadName string    `json:"workload_name"`
	Policy       string    `json:"policy"`
	Cores        int       `json:"cores"`
	Quantum      int       `json:"quantum,omitempty"` // round-robin only
	JobCount     int       `json:"job_count"`
	Makespan     int       `json:"makespan"` // completion time of the last job

	AvgWait       float64 `json:"avg_wait"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgResponse   float64 `json:"avg_response"`

	Jobs      []JobRecord `json:"jobs,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// JobRecord is the per-job outcome of a run, in simulated time units.
type JobRecord struct {
	JobID      int `json:"job_id"`
	Arrival    int `json:"arrival"`
	Service    int `json:"service"`
	Priority   int `json:"priority"`
	FirstStart int `json:"first_start"`
	Completion int `json:"completion"`
	Wait       int `json:"wait"`       // completion - arrival - service
	Turnaround int `json:"turnaround"` // completion - arrival
	Response   int `json:"response"`   // first_start - arrival
}
