package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API until interrupted. The vector index is rebuilt from
the document store before the listener opens.

Routes:
  POST /documents          add a document
  POST /search             answer a question
  GET  /documents/count    number of stored documents
  GET  /documents/{id}     content of one document
  POST /admin/resync       rebuild the vector index
  GET  /healthz            liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := listenAddr()
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingestion: ingestionService,
		Retrieval: retrievalService,
		Document:  documentService,
		Sync:      syncService,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}

func listenAddr() (string, error) {
	if serveAddr != "" {
		return serveAddr, nil
	}
	if settingsService == nil {
		return "", fmt.Errorf("no --addr given and settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.ServerAddr, nil
}
