package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"balance-backend/internal/tasks"
)

func TestClientListTasks(t *testing.T) {
	var gotAuth, gotPath string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"tasks": []tasks.Task{
				{ID: "t1", Title: "Stretch", Priority: tasks.RankHigh},
			},
			"pagination": tasks.Pagination{Total: 1, Limit: 50},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	list, page, err := c.ListTasks(context.Background(), ListQuery{
		Priority:  tasks.RankHigh,
		DueBefore: "2026-09-05",
		Limit:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/tasks", gotPath)
	assert.Equal(t, []string{"high"}, gotQuery["priority"])
	assert.Equal(t, []string{"2026-09-05"}, gotQuery["due_before"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	require.Len(t, list, 1)
	assert.Equal(t, "Stretch", list[0].Title)
	assert.Equal(t, 1, page.Total)
}

func TestClientUpdateTaskPath(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	rank := tasks.RankLow
	c := NewClient(srv.URL, "tok")
	err := c.UpdateTask(context.Background(), "abc-123", tasks.Update{Priority: &rank})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/tasks/abc-123", gotPath)
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded, slow down"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, _, err := c.ListTasks(context.Background(), ListQuery{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "rate limit exceeded, slow down", apiErr.Message)
}

func TestClientAnalyzeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/analysis", r.URL.Path)
		assert.Equal(t, "workload", r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode(map[string]any{
			"success":           true,
			"analysisType":      tasks.AnalysisWorkload,
			"workload_analysis": tasks.WorkloadAnalysis{Total: 3, Open: 3, Status: "light"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	a, err := c.Analyze(context.Background(), tasks.AnalysisWorkload)
	require.NoError(t, err)
	assert.Equal(t, tasks.AnalysisWorkload, a.Type)
	require.NotNil(t, a.Workload)
	assert.Equal(t, 3, a.Workload.Total)
}

// End to end through executor, client, and formatter: a throttled backend
// must come out as the generic apology, never the raw error text.
func TestRateLimitedRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded, slow down"})
	}))
	defer srv.Close()

	exec := NewExecutor(NewClient(srv.URL, "tok"), zap.NewNop())
	cmd, ok := Parse("show my high priority tasks")
	require.True(t, ok)

	reply := Format(exec.Execute(context.Background(), cmd))
	assert.Equal(t, msgGeneric, reply)
	assert.NotContains(t, reply, "rate limit")
}
