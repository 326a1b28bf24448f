package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored documents as CSV",
	Long: `Writes one CSV row per stored document with the columns id, content and
dimensions, ordered by id. Output goes to stdout unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	n, err := writeCSV(cmd.Context(), out, documentService)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput != "" {
		cmd.Printf("Exported %d documents to %s.\n", n, exportOutput)
	}
	return nil
}

// writeCSV streams every document as a CSV row and returns the row count.
func writeCSV(ctx context.Context, w io.Writer, docs driving.DocumentService) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "content", "dimensions"}); err != nil {
		return 0, err
	}
	n := 0
	err := docs.Each(ctx, func(doc domain.Document) error {
		n++
		return cw.Write([]string{
			strconv.FormatInt(int64(doc.ID), 10),
			doc.Content,
			strconv.Itoa(len(doc.Vector)),
		})
	})
	cw.Flush()
	if err != nil {
		return n, err
	}
	return n, cw.Error()
}
