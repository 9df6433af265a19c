// handler/health_handler_test.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	t.Run("no database", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewHealthHandler(nil).HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
	})

	t.Run("database reachable", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }))
		h.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("database down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h := NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("connection refused") }))
		h.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"database unreachable"}`, rr.Body.String())
	})
}
