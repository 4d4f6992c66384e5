package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBreaker gobreaker.State

func (b fixedBreaker) State() gobreaker.State { return gobreaker.State(b) }

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectHealthy  bool
	}{
		{
			name:           "healthy database",
			setupMock:      func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
			expectedStatus: http.StatusOK,
			expectHealthy:  true,
		},
		{
			name:           "database connection error",
			setupMock:      func(mock sqlmock.Sqlmock) { mock.ExpectPing().WillReturnError(sql.ErrConnDone) },
			expectedStatus: http.StatusServiceUnavailable,
			expectHealthy:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			handler := &HealthHandler{DB: db, Stats: db.Stats, Version: "test-version"}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := decodeHealth(t, rec)
			assert.Equal(t, "test-version", resp.Version)
			if tt.expectHealthy {
				assert.Equal(t, StatusHealthy, resp.Status)
			} else {
				assert.Equal(t, StatusUnhealthy, resp.Status)
				assert.Equal(t, "database unreachable", resp.Checks["database"].Message)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_MemoryStore(t *testing.T) {
	handler := &HealthHandler{Version: "v1"}
	rec := httptest.NewRecorder()
	handler.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "in-memory store", resp.Checks["database"].Message)
}

func TestHealthHandler_OpenBreakerIsDegraded(t *testing.T) {
	handler := &HealthHandler{Breaker: fixedBreaker(gobreaker.StateOpen)}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, StatusDegraded, resp.Checks["circuit_breaker"].Status)
	assert.Equal(t, "open", resp.Checks["circuit_breaker"].Details["state"])
}

func TestHealthHandler_Live(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{}).Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
