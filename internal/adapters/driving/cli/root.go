// Package cli provides the cobra command tree for recall.
// It is a driving adapter: commands call core services through driving ports
// that the binary wires in through a Bootstrap function.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// settingsOnly marks commands that need settings but not the storage,
// index and provider stack.
const settingsOnly = "recall/settings-only"

// version is set by Execute.
var version = "dev"

// Services wired by the bootstrap function. Tests assign them directly.
var (
	settingsService  driving.SettingsService
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	documentService  driving.DocumentService
	syncService      driving.Synchronizer
	loaderService    driving.LoaderService
)

// Global flags.
var (
	verbose    bool
	configPath string
	dataDir    string
)

// Options carries the global flags to the bootstrap function.
type Options struct {
	// ConfigPath is an explicit config file; empty means ~/.recall/config.toml.
	ConfigPath string

	// DataDir overrides storage.data_dir when set.
	DataDir string

	// Core is false for commands that only need settings.
	Core bool
}

// Services is the set of driving ports produced by a bootstrap function.
// Fields left nil are reported as "not configured" by the commands using them.
type Services struct {
	Settings  driving.SettingsService
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Document  driving.DocumentService
	Sync      driving.Synchronizer
	Loader    driving.LoaderService

	// Close releases stores and provider clients. May be nil.
	Close func()
}

// Bootstrap builds the services for one command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Store documents and answer questions from them",
	Long: `Recall stores text documents with vector embeddings and answers questions
by retrieving the most similar documents and handing them to a language model.

Run 'recall serve' for the HTTP API, 'recall tui' for the interactive screen
or 'recall mcp serve' to expose recall to AI assistants.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.toml, .yaml or .yml), or :memory: for a throwaway config")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for the document store (:memory: keeps documents in memory)")
}

// Execute runs the root command. build is called before each command that
// needs services; it may be nil in tests.
func Execute(ctx context.Context, v string, build Bootstrap) error {
	version = v
	bootstrap = build
	defer teardown()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	if bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), Options{
		ConfigPath: configPath,
		DataDir:    dataDir,
		Core:       cmd.Annotations[settingsOnly] == "",
	})
	if err != nil {
		return err
	}

	settingsService = svc.Settings
	ingestionService = svc.Ingestion
	retrievalService = svc.Retrieval
	documentService = svc.Document
	syncService = svc.Sync
	loaderService = svc.Loader
	cleanup = svc.Close
	return nil
}

func teardown() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

func settingsOnlyAnnotation() map[string]string {
	return map[string]string{settingsOnly: "true"}
}
