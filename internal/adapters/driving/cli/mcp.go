package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document collection to MCP clients",
	Long: `Starts a Model Context Protocol server so assistants can ask questions
about your documents and add new ones.

The server speaks JSON-RPC over stdio unless --http is given, in which case
it serves streamable HTTP on that address (useful with MCP Inspector).

Tools:     search, add_document, count_documents
Resources: recall://documents, recall://documents/{documentId}

Examples:
  recall mcp serve
  recall mcp serve --http 127.0.0.1:8090

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "recall": {
        "command": "/path/to/recall",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval: retrievalService,
		Ingestion: ingestionService,
		Document:  documentService,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
