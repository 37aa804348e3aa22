package jsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestHTTPClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "python developer in remote", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("remote_jobs_only"))

		_, _ = w.Write([]byte(`{"status":"OK","data":[{
			"job_id":"abc",
			"job_title":"Python Developer",
			"employer_name":"Initech",
			"job_city":"","job_state":"","job_country":"US",
			"job_is_remote":true,
			"job_employment_type":"CONTRACTOR",
			"job_description":"Django and AWS",
			"job_min_salary":40,"job_max_salary":60,"job_salary_period":"HOUR",
			"job_posted_at_timestamp":1760000000,
			"job_required_skills":["Python","Django"],
			"job_highlights":{"Qualifications":["3+ years Python"]}
		},{
			"job_id":"def","job_title":"Data Engineer","employer_name":"Globex",
			"job_min_salary":null
		}]}`))
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	postings, err := client.Search(context.Background(), SearchParams{Query: "python developer in remote", RemoteOnly: true})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "abc", p.ID)
	assert.True(t, p.IsRemote)
	assert.Equal(t, 40.0, p.MinSalary)
	assert.Equal(t, 60.0, p.MaxSalary)
	assert.Equal(t, "HOUR", p.SalaryPeriod)
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), p.PostedAt)
	assert.Equal(t, []string{"Python", "Django"}, p.RequiredSkills)
	assert.Equal(t, []string{"3+ years Python"}, p.Qualifications)

	assert.Zero(t, postings[1].MinSalary)
	assert.True(t, postings[1].PostedAt.IsZero())
}

func TestHTTPClient_Search_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrServerError},
		{"forbidden", http.StatusForbidden, ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, err := NewClient("secret", WithBaseURL(server.URL))
			require.NoError(t, err)

			_, err = client.Search(context.Background(), SearchParams{Query: "dev"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPClient_Search_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := NewClient("secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchParams{Query: "dev"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
