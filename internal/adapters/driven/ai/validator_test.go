package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func ollamaTags(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		time.Sleep(delay)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConfigValidator_Unconfigured(t *testing.T) {
	v := NewConfigValidator()

	tests := []struct {
		name string
		run  func() error
	}{
		{"nil embedding", func() error { return v.ValidateEmbedding(nil) }},
		{"nil llm", func() error { return v.ValidateLLM(nil) }},
		{"empty embedding provider", func() error {
			return v.ValidateEmbedding(&domain.EmbeddingSettings{Model: "m"})
		}},
		{"empty llm provider", func() error {
			return v.ValidateLLM(&domain.LLMSettings{Model: "m"})
		}},
		// hash cannot generate answers, so there is nothing to ping
		{"hash as llm", func() error {
			return v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderHash})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.run())
		})
	}
}

func TestConfigValidator_HashEmbedding(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider:   domain.AIProviderHash,
		Dimensions: 32,
	})

	assert.NoError(t, err)
}

func TestConfigValidator_PingsOllama(t *testing.T) {
	server := ollamaTags(t, 0)
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))

	server.Close()
	assert.Error(t, v.ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))
}

func TestConfigValidator_WithTimeout(t *testing.T) {
	server := ollamaTags(t, 200*time.Millisecond)

	err := NewConfigValidator().WithTimeout(20 * time.Millisecond).ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	assert.Error(t, err)
}
