package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/jobsync-api/internal/aggregator"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/scheduler"
	"github.com/maauso/jobsync-api/internal/source"
)

// SyncService is the part of aggregator.Service the handlers use.
type SyncService interface {
	Initialized() bool
	PerformSync(ctx context.Context) aggregator.Status
	RefreshFromSource(ctx context.Context, name string) ([]job.Job, error)
	FilteredJobs(f job.Filters) []job.Job
	Job(id int64) (job.Job, error)
	JobStatistics() job.Statistics
	Status() aggregator.Status
	Configuration() aggregator.Configuration
	UpdateConfiguration(u aggregator.ConfigurationUpdate) (aggregator.Configuration, error)
	Sources() []string
	SchedulerRunning() bool
}

// Compile-time check that aggregator.Service satisfies SyncService.
var _ SyncService = (*aggregator.Service)(nil)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   SyncService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service SyncService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	st := h.service.Status()
	resp := HealthResponse{Status: "ok", Jobs: st.TotalJobsSynced}
	if !st.LastSyncTime.IsZero() {
		resp.LastSyncTime = st.LastSyncTime.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListJobs handles GET /jobs requests.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	q, err := parseJobsQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
		return
	}
	if err := h.validator.Struct(q); err != nil {
		h.logger.Warn("query validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	jobs := h.service.FilteredJobs(q.Filters())
	if jobs == nil {
		jobs = []job.Job{}
	}
	writeJSON(w, http.StatusOK, JobsResponse{Count: len(jobs), Jobs: jobs})
}

var errInvalidEmploymentType = errors.New("type must be one of Full-time, Part-time, Contract, Internship")

func parseJobsQuery(v url.Values) (JobsQuery, error) {
	q := JobsQuery{
		Query:    v.Get("query"),
		Location: v.Get("location"),
		Company:  v.Get("company"),
	}
	if t := v.Get("type"); t != "" {
		et, ok := job.ParseEmploymentType(t)
		if !ok {
			return JobsQuery{}, errInvalidEmploymentType
		}
		q.EmploymentType = string(et)
	}
	if s := v.Get("min_salary"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return JobsQuery{}, errors.New("min_salary must be a number")
		}
		q.MinSalary = f
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return JobsQuery{}, errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	return q, nil
}

// GetJob handles GET /jobs/{id} requests.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || jobID < 0 {
		writeError(w, http.StatusBadRequest, "job ID must be a non-negative integer", "INVALID_JOB_ID")
		return
	}

	found, err := h.service.Job(jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// JobStatistics handles GET /jobs/stats requests.
func (h *Handlers) JobStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.JobStatistics())
}

// SyncStatus handles GET /sync/status requests.
func (h *Handlers) SyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status())
}

// TriggerSync handles POST /sync requests. The cycle runs to completion even
// if the client goes away.
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if !h.service.Initialized() {
		writeError(w, http.StatusServiceUnavailable, "aggregator not initialized", "NOT_INITIALIZED")
		return
	}

	st := h.service.PerformSync(context.WithoutCancel(r.Context()))
	if st.IsRunning {
		writeJSON(w, http.StatusAccepted, st)
		return
	}

	h.logger.Info("manual sync completed",
		slog.Int("jobs", st.TotalJobsSynced),
		slog.Int("failed_sources", len(st.FailedSources)),
	)
	writeJSON(w, http.StatusOK, st)
}

// RefreshSource handles POST /sources/{id}/refresh requests.
func (h *Handlers) RefreshSource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("id")
	if name == "" {
		writeError(w, http.StatusBadRequest, "source ID is required", "MISSING_SOURCE_ID")
		return
	}

	jobs, err := h.service.RefreshFromSource(context.WithoutCancel(r.Context()), name)
	if err != nil {
		h.writeServiceError(w, err, "source refresh failed", slog.String("source", name))
		return
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Source: name, Count: len(jobs), Jobs: jobs})
}

// ListSources handles GET /sources requests.
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	enabled := h.service.Configuration().Sources
	states := h.service.Status().SourceStates

	resp := SourcesResponse{Sources: []SourceInfo{}}
	for _, id := range h.service.Sources() {
		info := SourceInfo{ID: id, Enabled: slices.Contains(enabled, id)}
		for i := range states {
			if states[i].Source == id {
				st := states[i]
				info.State = &st
				break
			}
		}
		resp.Sources = append(resp.Sources, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetConfig handles GET /config requests.
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigResponse{
		Configuration:    h.service.Configuration(),
		SchedulerRunning: h.service.SchedulerRunning(),
	})
}

// UpdateConfig handles PATCH /config requests.
func (h *Handlers) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	cfg, err := h.service.UpdateConfiguration(req.Update())
	if err != nil {
		h.writeServiceError(w, err, "configuration update failed")
		return
	}
	writeJSON(w, http.StatusOK, ConfigResponse{
		Configuration:    cfg,
		SchedulerRunning: h.service.SchedulerRunning(),
	})
}

// writeServiceError maps aggregator errors to HTTP responses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, aggregator.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, "aggregator not initialized", "NOT_INITIALIZED")
	case errors.Is(err, aggregator.ErrSyncRunning):
		writeError(w, http.StatusConflict, "a sync is already running", "SYNC_RUNNING")
	case errors.Is(err, source.ErrUnknownSource):
		writeError(w, http.StatusNotFound, err.Error(), "SOURCE_NOT_FOUND")
	case errors.Is(err, aggregator.ErrInvalidConfiguration), errors.Is(err, scheduler.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_CONFIGURATION")
	case errors.Is(err, source.ErrRateLimited), errors.Is(err, source.ErrProviderUnavailable):
		h.logger.Warn(msg, append(attrs, slog.String("error", err.Error()))...)
		writeError(w, http.StatusBadGateway, err.Error(), "SOURCE_UNAVAILABLE")
	default:
		h.logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
		writeError(w, http.StatusInternalServerError, msg, "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
