package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

func TestLLMService_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "sys", req.System)
		require.NotNil(t, req.Options)
		assert.InDelta(t, 0.2, req.Options.Temperature, 1e-9)

		_, _ = w.Write([]byte(`{"response":" Cats are mammals. ","done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	out, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{System: "sys", Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "Cats are mammals.", out)
}

func TestLLMService_Generate_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "nope"})
	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	assert.ErrorContains(t, err, "not found")
	assert.Equal(t, "nope", svc.ModelName())
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
