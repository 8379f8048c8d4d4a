package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/pkg/contracts"
)

func TestHealthCheck(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, contracts.AppName, resp["app"])
	assert.Equal(t, contracts.Version, resp["version"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestVersion(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	handler.Version(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, contracts.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
