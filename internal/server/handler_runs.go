package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/schedsim/internal/sim"
	"github.com/me/schedsim/internal/workload"
	"github.com/me/schedsim/pkg/model"
	"github.com/me/schedsim/pkg/sched"
)

// createRunRequest carries a workload plus simulation options. Options set
// at the top level override the workload's own defaults.
type createRunRequest struct {
	Workload workload.Workload `json:"workload"`
	Policy   string            `json:"policy,omitempty"`
	Cores    int               `json:"cores,omitempty"`
	Quantum  int               `json:"quantum,omitempty"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	if err := req.Workload.Validate(); err != nil {
		respondError(w, reqID, http.StatusUnprocessableEntity,
			model.NewValidationError(err.Error()))
		return
	}

	// Request options win over workload defaults.
	policyStr := req.Policy
	if policyStr == "" {
		policyStr = req.Workload.Defaults.Policy
	}
	if policyStr == "" {
		policyStr = sched.PolicyFCFS.String()
	}
	policy, err := sched.ParsePolicy(policyStr)
	if err != nil {
		respondError(w, reqID, http.StatusUnprocessableEntity,
			model.NewValidationError(err.Error(), model.FieldError{Field: "policy", Message: err.Error()}))
		return
	}

	cores := req.Cores
	if cores == 0 {
		cores = req.Workload.Defaults.Cores
	}
	if cores == 0 {
		cores = 1
	}
	quantum := req.Quantum
	if quantum == 0 {
		quantum = req.Workload.Defaults.Quantum
	}

	result, err := sim.Run(req.Workload.Jobs, sim.Options{
		Cores:   cores,
		Policy:  policy,
		Quantum: quantum,
	}, s.logger)
	if err != nil {
		respondError(w, reqID, http.StatusUnprocessableEntity,
			model.NewValidationError(err.Error()))
		return
	}

	run := &model.Run{
		ID:            "run_" + uuid.New().String(),
		WorkloadName:  req.Workload.Name,
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

	if err := s.store.CreateRun(r.Context(), run); err != nil {
		s.logger.Error("create run", "run_id", run.ID, "error", err)
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError())
		return
	}

	s.logger.Info("run recorded", "run_id", run.ID, "policy", run.Policy,
		"cores", run.Cores, "jobs", run.JobCount)
	respondCreated(w, reqID, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}
	opts.Policy = r.URL.Query().Get("policy")
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		s.logger.Error("list runs", "error", err)
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError())
		return
	}

	respondList(w, reqID, runs, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(runs) < total,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.logger.Error("get run", "run_id", id, "error", err)
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError())
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}
	respondOK(w, reqID, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.logger.Error("get run for delete", "run_id", id, "error", err)
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError())
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}

	if err := s.store.DeleteRun(r.Context(), id); err != nil {
		s.logger.Error("delete run", "run_id", id, "error", err)
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError())
		return
	}
	respondOK(w, reqID, map[string]string{"deleted": id})
}
