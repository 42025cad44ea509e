package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "limit must be between 1 and 100")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"limit must be between 1 and 100"}`, rec.Body.String())
}

func TestAuditLogsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	h := Audit(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, slow down")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTooManyRequests), fields["status"])
	assert.Equal(t, "/tasks", fields["path"])
	assert.Equal(t, http.MethodGet, fields["method"])
}

func TestAuditDefaultsTo200(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	h := Audit(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, logs.All(), 1)
	assert.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
}
