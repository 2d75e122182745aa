package model

import "time"

// Response is the envelope every schedsim API endpoint replies with, for
// successes and errors alike. Data carries the endpoint's payload (a run,
// a run page, the policy table); Error is set instead when Status is
// "error".
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination describes the page a run listing returned relative to the full
// result set.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Run listings default to a 20-run page and never hand out more than 100
// at once.
const (
	DefaultRunPageSize = 20
	MaxRunPageSize     = 100
)

// ListOptions selects a page of recorded runs, optionally filtered to a
// single policy.
type ListOptions struct {
	Limit  int
	Offset int
	Policy string // empty means all policies
}

// DefaultListOptions returns the first page at the default size.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: DefaultRunPageSize}
}

// Clamp forces the options into the allowed range: unset or negative values
// fall back to the defaults, oversized pages are cut to the maximum.
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = DefaultRunPageSize
	}
	if o.Limit > MaxRunPageSize {
		o.Limit = MaxRunPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
