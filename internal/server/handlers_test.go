package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maauso/jobsync-api/internal/aggregator"
	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/ratelimit"
	"github.com/maauso/jobsync-api/internal/scheduler"
	"github.com/maauso/jobsync-api/internal/source"
)

// mockService implements SyncService for testing.
type mockService struct {
	mock.Mock
}

func (m *mockService) Initialized() bool {
	return m.Called().Bool(0)
}

func (m *mockService) PerformSync(ctx context.Context) aggregator.Status {
	return m.Called(ctx).Get(0).(aggregator.Status)
}

func (m *mockService) RefreshFromSource(ctx context.Context, name string) ([]job.Job, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockService) FilteredJobs(f job.Filters) []job.Job {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]job.Job)
}

func (m *mockService) Job(id int64) (job.Job, error) {
	args := m.Called(id)
	return args.Get(0).(job.Job), args.Error(1)
}

func (m *mockService) JobStatistics() job.Statistics {
	return m.Called().Get(0).(job.Statistics)
}

func (m *mockService) Status() aggregator.Status {
	return m.Called().Get(0).(aggregator.Status)
}

func (m *mockService) Configuration() aggregator.Configuration {
	return m.Called().Get(0).(aggregator.Configuration)
}

func (m *mockService) UpdateConfiguration(u aggregator.ConfigurationUpdate) (aggregator.Configuration, error) {
	args := m.Called(u)
	return args.Get(0).(aggregator.Configuration), args.Error(1)
}

func (m *mockService) Sources() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockService) SchedulerRunning() bool {
	return m.Called().Bool(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestHandlers(t *testing.T) (*Handlers, *mockService) {
	t.Helper()
	svc := &mockService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return NewHandlers(svc, testLogger()), svc
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func sampleJobs() []job.Job {
	return []job.Job{
		{ID: 11, Source: "adzuna", Title: "Go Developer", Company: "Acme", Location: "Remote", EmploymentType: job.FullTime},
		{ID: 12, Source: "remotive", Title: "SRE", Company: "Globex", Location: "Berlin, Germany", EmploymentType: job.Contract},
	}
}

func TestHealth(t *testing.T) {
	h, svc := newTestHandlers(t)
	last := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	svc.On("Status").Return(aggregator.Status{TotalJobsSynced: 7, LastSyncTime: last})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 7, resp.Jobs)
	assert.Equal(t, "2026-10-16T08:00:00Z", resp.LastSyncTime)
}

func TestListJobs_PassesFilters(t *testing.T) {
	h, svc := newTestHandlers(t)
	want := job.Filters{
		Query:          "go",
		Location:       "remote",
		Company:        "acme",
		EmploymentType: "Full-time",
		MinSalary:      80000,
		Limit:          5,
	}
	svc.On("FilteredJobs", want).Return(sampleJobs()[:1])

	req := httptest.NewRequest(http.MethodGet, "/jobs?query=go&location=remote&company=acme&type=full-time&min_salary=80000&limit=5", nil)
	rec := httptest.NewRecorder()

	h.ListJobs(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp JobsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Go Developer", resp.Jobs[0].Title)
}

func TestListJobs_EmptyCacheReturnsEmptyArray(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("FilteredJobs", job.Filters{}).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()

	h.ListJobs(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"jobs":[]`)
}

func TestListJobs_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"unknown type", "type=freelance", "INVALID_QUERY"},
		{"non-numeric salary", "min_salary=lots", "INVALID_QUERY"},
		{"non-numeric limit", "limit=ten", "INVALID_QUERY"},
		{"negative limit", "limit=-1", "VALIDATION_ERROR"},
		{"limit too large", "limit=5000", "VALIDATION_ERROR"},
		{"negative salary", "min_salary=-10", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/jobs?"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.ListJobs(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestGetJob_Success(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Job", int64(11)).Return(sampleJobs()[0], nil)

	req := httptest.NewRequest(http.MethodGet, "/jobs/11", nil)
	req.SetPathValue("id", "11")
	rec := httptest.NewRecorder()

	h.GetJob(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got job.Job
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "Acme", got.Company)
}

func TestGetJob_NotFound(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Job", int64(99)).Return(job.Job{}, job.ErrJobNotFound)

	req := httptest.NewRequest(http.MethodGet, "/jobs/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()

	h.GetJob(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "JOB_NOT_FOUND", decodeError(t, rec).Code)
}

func TestGetJob_InvalidID(t *testing.T) {
	for _, id := range []string{"", "abc", "-4"} {
		t.Run(fmt.Sprintf("id=%q", id), func(t *testing.T) {
			h, _ := newTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/jobs/x", nil)
			req.SetPathValue("id", id)
			rec := httptest.NewRecorder()

			h.GetJob(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_JOB_ID", decodeError(t, rec).Code)
		})
	}
}

func TestJobStatistics(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("JobStatistics").Return(job.ComputeStatistics(sampleJobs()))

	req := httptest.NewRequest(http.MethodGet, "/jobs/stats", nil)
	rec := httptest.NewRecorder()

	h.JobStatistics(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats job.Statistics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 1, stats.ByType["Contract"])
}

func TestTriggerSync_Completed(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Initialized").Return(true)
	svc.On("PerformSync", mock.Anything).Return(aggregator.Status{
		TotalJobsSynced:   4,
		SuccessfulSources: []string{"stub"},
		FailedSources:     []string{},
		Errors:            []string{},
	})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()

	h.TriggerSync(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var st aggregator.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, 4, st.TotalJobsSynced)
	assert.Equal(t, []string{"stub"}, st.SuccessfulSources)
}

func TestTriggerSync_AlreadyRunning(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Initialized").Return(true)
	svc.On("PerformSync", mock.Anything).Return(aggregator.Status{IsRunning: true})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()

	h.TriggerSync(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestTriggerSync_NotInitialized(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Initialized").Return(false)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()

	h.TriggerSync(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_INITIALIZED", decodeError(t, rec).Code)
	svc.AssertNotCalled(t, "PerformSync", mock.Anything)
}

func TestRefreshSource(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown source", fmt.Errorf("%w: nope", source.ErrUnknownSource), http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{"sync running", aggregator.ErrSyncRunning, http.StatusConflict, "SYNC_RUNNING"},
		{"not initialized", aggregator.ErrNotInitialized, http.StatusServiceUnavailable, "NOT_INITIALIZED"},
		{"provider down", fmt.Errorf("adzuna: %w", source.ErrProviderUnavailable), http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandlers(t)
			svc.On("RefreshFromSource", mock.Anything, "adzuna").Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/sources/adzuna/refresh", nil)
			req.SetPathValue("id", "adzuna")
			rec := httptest.NewRecorder()

			h.RefreshSource(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestRefreshSource_Success(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("RefreshFromSource", mock.Anything, "adzuna").Return(sampleJobs()[:1], nil)

	req := httptest.NewRequest(http.MethodPost, "/sources/adzuna/refresh", nil)
	req.SetPathValue("id", "adzuna")
	rec := httptest.NewRecorder()

	h.RefreshSource(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp RefreshResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "adzuna", resp.Source)
	assert.Equal(t, 1, resp.Count)
}

func TestListSources(t *testing.T) {
	h, svc := newTestHandlers(t)
	until := time.Date(2026, 10, 16, 9, 5, 0, 0, time.UTC)
	svc.On("Configuration").Return(aggregator.Configuration{Sources: []string{"adzuna"}})
	svc.On("Status").Return(aggregator.Status{SourceStates: []ratelimit.State{
		{Source: "adzuna", CooldownUntil: until, CoolingDown: true, RateLimitHits: 1},
	}})
	svc.On("Sources").Return([]string{"adzuna", "stub"})

	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()

	h.ListSources(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp SourcesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "adzuna", resp.Sources[0].ID)
	assert.True(t, resp.Sources[0].Enabled)
	require.NotNil(t, resp.Sources[0].State)
	assert.True(t, resp.Sources[0].State.CoolingDown)
	assert.Equal(t, "stub", resp.Sources[1].ID)
	assert.False(t, resp.Sources[1].Enabled)
	assert.Nil(t, resp.Sources[1].State)
}

func TestGetConfig(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Configuration").Return(aggregator.DefaultConfiguration())
	svc.On("SchedulerRunning").Return(true)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()

	h.GetConfig(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"syncIntervalMinutes":60`)
	assert.Contains(t, body, `"schedulerRunning":true`)
}

func TestUpdateConfig_Success(t *testing.T) {
	h, svc := newTestHandlers(t)
	interval := 15
	auto := false
	updated := aggregator.DefaultConfiguration()
	updated.SyncIntervalMinutes = interval
	updated.AutoRefresh = auto

	svc.On("UpdateConfiguration", aggregator.ConfigurationUpdate{
		SyncIntervalMinutes: &interval,
		AutoRefresh:         &auto,
	}).Return(updated, nil)
	svc.On("SchedulerRunning").Return(false)

	req := httptest.NewRequest(http.MethodPatch, "/config", strings.NewReader(`{"syncIntervalMinutes":15,"autoRefresh":false}`))
	rec := httptest.NewRecorder()

	h.UpdateConfig(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 15, resp.SyncIntervalMinutes)
	assert.False(t, resp.AutoRefresh)
	assert.False(t, resp.SchedulerRunning)
}

func TestUpdateConfig_InvalidJSON(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPatch, "/config", bytes.NewReader([]byte("invalid json")))
	rec := httptest.NewRecorder()

	h.UpdateConfig(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, rec).Code)
}

func TestUpdateConfig_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero interval", `{"syncIntervalMinutes":0}`},
		{"too many jobs", `{"maxJobsPerSource":5000}`},
		{"blank query", `{"searchQueries":[""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers(t)

			req := httptest.NewRequest(http.MethodPatch, "/config", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.UpdateConfig(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		})
	}
}

func TestUpdateConfig_RejectedByService(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("UpdateConfiguration", mock.Anything).
		Return(aggregator.Configuration{}, fmt.Errorf("%w: unknown source", aggregator.ErrInvalidConfiguration))

	req := httptest.NewRequest(http.MethodPatch, "/config", strings.NewReader(`{"sources":["nope"]}`))
	rec := httptest.NewRecorder()

	h.UpdateConfig(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CONFIGURATION", decodeError(t, rec).Code)
}

func newStubService(t *testing.T) *aggregator.Service {
	t.Helper()
	fake := clock.NewFake(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	svc := aggregator.NewService(source.NewRegistry(source.NewStub(10)),
		aggregator.WithClock(fake),
		aggregator.WithScheduler(scheduler.NewManual()),
		aggregator.WithLogger(testLogger()),
		aggregator.WithLimiters(ratelimit.NewPool(source.StaticFallback{}, ratelimit.WithClock(fake))),
	)
	cfg := aggregator.DefaultConfiguration()
	cfg.AutoRefresh = false
	require.NoError(t, svc.Initialize(context.Background(), cfg))
	t.Cleanup(svc.Cleanup)
	return svc
}

func TestRouter_Integration(t *testing.T) {
	svc := newStubService(t)
	router := NewRouter(NewHandlers(svc, testLogger()), testLogger(), DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/jobs?limit=3", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var list JobsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.NotEmpty(t, list.Jobs)
	assert.LessOrEqual(t, list.Count, 3)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/jobs/%d", list.Jobs[0].ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/jobs/stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "totalJobs")

	req = httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/sources/stub/refresh", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/sources/unknown/refresh", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"successfulSources":["stub"]`)

	req = httptest.NewRequest(http.MethodDelete, "/jobs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDMiddleware_PropagatesCallerID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	h, svc := newTestHandlers(t)
	svc.On("Status").Return(aggregator.Status{})

	cfg := Config{AllowedOrigins: []string{"https://example.com"}}
	router := NewRouter(h, testLogger(), cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	// Test OPTIONS preflight
	req = httptest.NewRequest(http.MethodOptions, "/config", nil)
	req.Header.Set("Origin", "https://example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRecoveryMiddleware(t *testing.T) {
	// Create a handler that panics
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	handler := RecoveryMiddleware(testLogger())(panicHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	// Should not panic
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestLoggingMiddleware_LevelsAndSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			writeError(w, http.StatusBadGateway, "upstream", "SOURCE_UNAVAILABLE")
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var health, boom map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &health))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &boom))
	assert.Equal(t, "DEBUG", health["level"])
	assert.EqualValues(t, 2, health["bytes"])
	assert.Equal(t, "WARN", boom["level"])
	assert.EqualValues(t, http.StatusBadGateway, boom["status"])
}
