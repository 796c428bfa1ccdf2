package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, checker *Checker, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	e := echo.New()
	checker.Register(e.Group("/health"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestReadinessBeforeStartup(t *testing.T) {
	checker := NewChecker("test")

	rec, resp := serve(t, checker, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusUnhealthy, resp.Checks["startup"].Status)
}

func TestReadinessRunsChecks(t *testing.T) {
	checker := NewChecker("test")
	checker.AddCheck("database", func(ctx context.Context) error { return nil })
	checker.AddCheck("redis", func(ctx context.Context) error { return errors.New("connection refused") })
	checker.SetReady(true)

	rec, resp := serve(t, checker, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusHealthy, resp.Checks["database"].Status)
	assert.Equal(t, "connection refused", resp.Checks["redis"].Message)
}

func TestLiveness(t *testing.T) {
	rec, resp := serve(t, NewChecker("1.2.3"), "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", resp.Version)
}
