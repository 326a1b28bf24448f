package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var addFile string

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Store a document",
	Long: `Embeds and stores a document. Identical content is stored once; adding it
again reports the existing document id.

The content is taken from the argument, from --file, or from stdin when the
argument is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored documents",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Rebuild the vector index from the document store",
	Long: `Replaces the in-memory vector index with the contents of the document store.
This is the repair path when a document was stored but not indexed.`,
	Args: cobra.NoArgs,
	RunE: runResync,
}

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read the document from a file")
	rootCmd.AddCommand(addCmd, countCmd, resyncCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	content, err := addContent(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	res, err := ingestionService.Ingest(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	if res.Created {
		cmd.Printf("Document added (id %d).\n", res.ID)
	} else {
		cmd.Printf("Document already exists (id %d).\n", res.ID)
	}
	return nil
}

func addContent(stdin io.Reader, args []string) (string, error) {
	switch {
	case addFile != "" && len(args) > 0:
		return "", errors.New("use either an argument or --file, not both")
	case addFile != "":
		data, err := os.ReadFile(addFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", addFile, err)
		}
		return string(data), nil
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", errors.New("no content given")
	}
}

func runCount(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	n, err := documentService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Println(n)
	return nil
}

func runResync(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	n, err := syncService.Resync(cmd.Context())
	if err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}
	cmd.Printf("Indexed %d documents.\n", n)
	return nil
}
