package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req askRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is NAV?", req.Query)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(askResponse{
			Answer: "NAV is the per-unit value of a fund.",
			Source: "https://mf.nipponindiaim.com/",
		})
	}))
	defer srv.Close()

	apiClient := NewAPIClientWithConfig(srv.URL)

	var resp askResponse
	err := apiClient.Post("/query", askRequest{Query: "What is NAV?"}, &resp)

	require.NoError(t, err)
	assert.Equal(t, "NAV is the per-unit value of a fund.", resp.Answer)
	assert.Equal(t, "https://mf.nipponindiaim.com/", resp.Source)
	assert.False(t, resp.IsAdvice)
}

func TestAPIClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	apiClient := NewAPIClientWithConfig(srv.URL)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, apiClient.Get("/health", &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "query parameter is required"}`))
	}))
	defer srv.Close()

	apiClient := NewAPIClientWithConfig(srv.URL)

	err := apiClient.Post("/query", askRequest{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "query parameter is required", apiErr.Message)
}

func TestAPIClient_ErrorResponse_NonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	apiClient := NewAPIClientWithConfig(srv.URL)

	err := apiClient.Get("/health", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://fundfacts.internal:9090")

	apiClient := NewAPIClientWithCmd(nil)
	assert.Equal(t, "http://fundfacts.internal:9090", apiClient.baseURL)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")

	apiClient := NewAPIClientWithCmd(nil)
	assert.Equal(t, defaultAPIURL, apiClient.baseURL)
}
