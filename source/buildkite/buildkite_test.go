package buildkite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildkite/cloudwatch-metrics-agent/config"
)

func newTestClient(serverURL string) *Client {
	agentCfg := config.NewAgentConfig().
		WithCredentials("test-token", "test-org").
		WithEndpoint(serverURL)
	return NewClient(agentCfg, nil)
}

func TestProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/test-org/projects", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"slug": "project-one", "running_jobs_count": 2, "repository": "git@example.com:o/p.git"},
			{"slug": "project-two"}
		]`))
	}))
	defer server.Close()

	projects, err := newTestClient(server.URL).Projects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "project-one", projects[0]["slug"])
	assert.Equal(t, float64(2), projects[0]["running_jobs_count"])
	assert.Equal(t, "project-two", projects[1]["slug"])
}

func TestProjectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Projects(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestProjectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Projects(context.Background())
	assert.Error(t, err)
}

func TestProjectsContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Projects(ctx)
	assert.Error(t, err)
}
