package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/custodia-labs/recall/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

var loadWatch bool

var loadCmd = &cobra.Command{
	Use:   "load <directory>",
	Short: "Store every document in a folder",
	Long: `Walks a folder and stores each .txt, .md and .html file as a document.
Hidden files and directories are skipped, and HTML is reduced to its text.
Files that fail are reported at the end; they do not stop the load.

With --watch, recall keeps running and stores files as they are created or
changed until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVarP(&loadWatch, "watch", "w", false, "keep watching the folder for new files")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loaderService == nil {
		return errors.New("loader service not configured")
	}

	source := filesystem.New(args[0])
	ctx := cmd.Context()

	report, err := loaderService.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	cmd.Printf("Loaded %d files: %d added, %d already stored, %d failed.\n",
		report.Total(), report.Created, report.Existing, len(report.Failed))

	if len(report.Failed) > 0 {
		cmd.Print(failureTree(source.Root(), report.Failed))
	}

	if !loadWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (ctrl+c to stop)...\n", source.Root())
	return source.Watch(ctx, func(item driven.SourceItem) error {
		res, err := loaderService.LoadItem(ctx, item)
		if err != nil {
			return err
		}
		if res.Created {
			cmd.Printf("Added %s (id %d)\n", item.Name, res.ID)
		} else {
			logger.Debug("%s already stored as %d", item.Name, res.ID)
		}
		return nil
	})
}

// failureTree renders failed items under their folders, so a broken
// subdirectory reads as one branch instead of a flat list.
func failureTree(root string, failed map[string]error) string {
	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := treeprint.New()
	tree.SetValue(filepath.Base(root))
	branches := map[string]treeprint.Tree{"": tree}

	for _, name := range names {
		parts := strings.Split(name, "/")
		parent := tree
		for i := range parts[:len(parts)-1] {
			dir := strings.Join(parts[:i+1], "/")
			b, ok := branches[dir]
			if !ok {
				b = parent.AddBranch(parts[i])
				branches[dir] = b
			}
			parent = b
		}
		parent.AddNode(fmt.Sprintf("%s: %v", parts[len(parts)-1], failed[name]))
	}
	return tree.String()
}
