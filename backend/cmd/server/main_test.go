package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/api"
	"orkg-backend/backend/internal/metrics"
)

func TestNewRegistry_Disabled(t *testing.T) {
	assert.Nil(t, newRegistry(metrics.NewMetrics(), false))
}

func TestNewRegistry_ServesApplicationAndRuntimeMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics()
	registry := newRegistry(m, true)
	require.NotNil(t, registry)

	m.Exported("statements", 3)

	router := api.NewRouter(api.Services{}, api.Options{Gatherer: registry})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `orkg_export_records_total{kind="statements"} 3`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := api.NewRouter(api.Services{}, api.Options{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
