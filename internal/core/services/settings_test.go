package services

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/logger"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Zero(t, settings.Embedding.Dimensions, "zero means the model decides")
	assert.Equal(t, "llama3.2", settings.LLM.Model)
	assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
	assert.Equal(t, 3, settings.Retrieval.DefaultK)
	assert.Equal(t, "identity", settings.Retrieval.Projection)
	assert.Equal(t, domain.StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, 60*time.Second, settings.ProviderTimeout)
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("embedding.api_key", "sk-test"))
	require.NoError(t, store.Set("retrieval.default_k", 5))
	require.NoError(t, store.Set("retrieval.projection", "truncate:256"))
	require.NoError(t, store.Set("providers.timeout", "15s"))
	require.NoError(t, store.Set("storage.backend", "bolt"))
	require.NoError(t, store.Set("load.rate_per_second", 2.5))

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 5, settings.Retrieval.DefaultK)
	assert.Equal(t, "truncate:256", settings.Retrieval.Projection)
	assert.Equal(t, 15*time.Second, settings.ProviderTimeout)
	assert.Equal(t, domain.StorageBackendBolt, settings.Storage.Backend)
	assert.InDelta(t, 2.5, settings.LoadRatePerSecond, 1e-9)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "bogus"))
	require.NoError(t, store.Set("storage.backend", "postgres"))
	require.NoError(t, store.Set("providers.timeout", "soon"))

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderHash, settings.Embedding.Provider)
	assert.Equal(t, domain.StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, 60*time.Second, settings.ProviderTimeout)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "anthropic"))
	svc := NewSettingsService(store, nil)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.LLM.APIKey)
	assert.Empty(t, settings.LLM.BaseURL)

	// Keys from the environment are not persisted.
	require.NoError(t, svc.Save(settings))
	assert.Empty(t, store.GetString("llm.api_key"))
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)

	require.NoError(t, svc.Set("retrieval.default_k", "7"))
	require.NoError(t, svc.Set("providers.timeout", "90s"))
	require.NoError(t, svc.Set("load.rate_per_second", "0.5"))
	require.NoError(t, svc.Set("retrieval.projection", "truncate:64"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.Retrieval.DefaultK)
	assert.Equal(t, 90*time.Second, settings.ProviderTimeout)
	assert.InDelta(t, 0.5, settings.LoadRatePerSecond, 1e-9)
	assert.Equal(t, "truncate:64", settings.Retrieval.Projection)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"not an int", "retrieval.default_k", "three"},
		{"negative k", "retrieval.default_k", "-1"},
		{"bad duration", "providers.timeout", "forever"},
		{"bad projection", "retrieval.projection", "pca:3"},
		{"llm only provider for embeddings", "embedding.provider", "anthropic"},
		{"bad url", "llm.base_url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			svc := NewSettingsService(store, nil)

			err := svc.Set(tt.key, tt.value)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.NoError(t, svc.Validate(), "a rejected value must not be kept")
		})
	}
}

func TestSettingsService_Set_LogsFailedRestore(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	store := &flakyConfigStore{ConfigStore: memory.NewConfigStore(), okSets: 1, setErr: errBoom}
	svc := NewSettingsService(store, nil)

	err := svc.Set("llm.base_url", "not a url")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, buf.String(), "[WARN] Could not restore llm.base_url")
	assert.Contains(t, buf.String(), "boom")
}

func TestSettingsService_SetAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("llm.provider", "openai"))
	svc := NewSettingsService(store, nil)

	require.NoError(t, svc.SetAPIKey(domain.AIProviderOpenAI, "sk-1"))
	assert.Equal(t, "sk-1", store.GetString("embedding.api_key"))
	assert.Equal(t, "sk-1", store.GetString("llm.api_key"))

	assert.ErrorIs(t, svc.SetAPIKey(domain.AIProviderOllama, "x"), domain.ErrValidation)
	assert.ErrorIs(t, svc.SetAPIKey(domain.AIProviderAnthropic, "x"), domain.ErrValidation)
	assert.ErrorIs(t, svc.SetAPIKey(domain.AIProviderOpenAI, ""), domain.ErrValidation)
}

func TestSettingsService_Validate_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "openai"))

	err := NewSettingsService(store, nil).Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)

	settings := svc.GetDefaults()
	settings.LLM.Provider = domain.AIProviderOpenAI
	settings.LLM.Model = "gpt-4o"
	settings.LLM.APIKey = "sk-saved"
	settings.Retrieval.DefaultK = 4
	settings.ProviderTimeout = 30 * time.Second
	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, got.LLM.Provider)
	assert.Equal(t, "gpt-4o", got.LLM.Model)
	assert.Equal(t, "sk-saved", got.LLM.APIKey)
	assert.Equal(t, 4, got.Retrieval.DefaultK)
	assert.Equal(t, 30*time.Second, got.ProviderTimeout)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil)

	settings := svc.GetDefaults()
	settings.Retrieval.DefaultK = 0
	assert.ErrorIs(t, svc.Save(&settings), domain.ErrValidation)
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), &mockAIValidator{llmErr: errBoom})

	assert.NoError(t, svc.ValidateEmbeddingConfig())
	assert.ErrorIs(t, svc.ValidateLLMConfig(), errBoom)

	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateLLMConfig())
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()
	assert.Contains(t, keys, "retrieval.default_k")
	assert.IsIncreasing(t, keys)
}
