package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the embedding provider, the language model, retrieval
defaults, storage and server options.

Settings are stored in ~/.recall/config.toml (or the file given by --config).
API keys not present in the file are read from OPENAI_API_KEY and
ANTHROPIC_API_KEY, including from a .env file in the working directory.`,
	Annotations: settingsOnlyAnnotation(),
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: settingsOnlyAnnotation(),
	Args:        cobra.NoArgs,
	RunE:        runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. The new settings are validated before they are saved.

Keys:
  embedding.provider, embedding.model, embedding.base_url, embedding.dimensions
  llm.provider, llm.model, llm.base_url, llm.max_prompt_chars
  retrieval.default_k, retrieval.projection (identity or truncate:N)
  storage.backend (sqlite or bolt), storage.data_dir
  providers.timeout (e.g. 30s), server.addr, load.rate_per_second

Examples:
  recall settings set embedding.provider ollama
  recall settings set retrieval.default_k 5`,
	Annotations: settingsOnlyAnnotation(),
	Args:        cobra.ExactArgs(2),
	RunE:        runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an API key",
	Long: `Prompts for an API key without echoing it and stores it for every section
(embedding, llm) that uses the provider. Providers: openai, anthropic.`,
	Annotations: settingsOnlyAnnotation(),
	Args:        cobra.ExactArgs(1),
	RunE:        runSettingsSetKey,
}

var settingsCheckCmd = &cobra.Command{
	Use:         "check",
	Short:       "Ping the configured providers",
	Annotations: settingsOnlyAnnotation(),
	Args:        cobra.NoArgs,
	RunE:        runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsSetKeyCmd, settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	if settings.Embedding.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	}
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	} else {
		cmd.Println("  Dimensions: model default")
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	printStatus(cmd, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	cmd.Printf("  Max prompt chars: %d\n", settings.LLM.MaxPromptChars)
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Default k: %d\n", settings.Retrieval.DefaultK)
	cmd.Printf("  Projection: %s\n", settings.Retrieval.Projection)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	dir := settings.Storage.DataDir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dir)
	cmd.Println()

	cmd.Println("[Runtime]")
	cmd.Printf("  Provider timeout: %s\n", settings.ProviderTimeout)
	cmd.Printf("  Server address: %s\n", settings.ServerAddr)
	if settings.LoadRatePerSecond > 0 {
		cmd.Printf("  Load rate: %g/s\n", settings.LoadRatePerSecond)
	} else {
		cmd.Println("  Load rate: unlimited")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key == "" {
		cmd.Printf("  API Key: (not set, export %s or run 'recall settings set-key %s')\n",
			provider.APIKeyEnv(), provider)
		return
	}
	cmd.Printf("  API Key: %s\n", maskAPIKey(key))
}

func printStatus(cmd *cobra.Command, configured bool) {
	if configured {
		cmd.Println("  Status: configured")
	} else {
		cmd.Println("  Status: not configured")
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if strings.HasSuffix(key, ".api_key") {
		return fmt.Errorf("use 'recall settings set-key <provider>' to store API keys")
	}
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(args[0])
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%s does not use an API key", provider)
	}

	cmd.Printf("Enter %s API key: ", provider)
	key := readPassword(cmd.InOrStdin())
	cmd.Println()
	if key == "" {
		return errors.New("no API key entered")
	}

	if err := settingsService.SetAPIKey(provider, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("API key stored (%s).\n", maskAPIKey(key))
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var failed bool
	cmd.Print("Embedding provider... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	cmd.Print("LLM provider... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if failed {
		return errors.New("provider check failed")
	}
	return nil
}

// readPassword reads a line without echo when stdin is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
