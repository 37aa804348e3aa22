package remotive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{"job-count":3,"jobs":[
	{"id":1,"url":"https://remotive.com/1","title":"Go Engineer","company_name":"Hooli","category":"Software Development","tags":["go","k8s"],"job_type":"full_time","publication_date":"2026-10-01T10:00:00","candidate_required_location":"Worldwide","salary":"$120k - $150k","description":"<p>Build</p>"},
	{"id":2,"title":"Designer","company_name":"Pied Piper","job_type":"contract","candidate_required_location":"Europe"},
	{"id":3,"title":"SRE","company_name":"Aviato","job_type":"full_time","candidate_required_location":"USA Only"}
]}`

func TestHTTPClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/remote-jobs", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	postings, err := client.Search(context.Background(), SearchParams{Search: "golang", Limit: 2})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, int64(1), postings[0].ID)
	assert.Equal(t, "Hooli", postings[0].CompanyName)
	assert.Equal(t, []string{"go", "k8s"}, postings[0].Tags)
	assert.Equal(t, "Worldwide", postings[0].CandidateRequiredLocation)
	assert.Equal(t, "Pied Piper", postings[1].CompanyName)
}

func TestHTTPClient_Search_NoParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	postings, err := NewClient(WithBaseURL(server.URL)).Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Len(t, postings, 3)
}

func TestHTTPClient_Search_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"bad gateway", http.StatusBadGateway, ErrServerError},
		{"not found", http.StatusNotFound, ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient(WithBaseURL(server.URL)).Search(context.Background(), SearchParams{Search: "go"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
