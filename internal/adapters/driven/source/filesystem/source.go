// Package filesystem provides a DocumentSource that reads text, Markdown
// and HTML files from a local folder.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// MaxFileSize is the largest file the source will read (10 MiB).
const MaxFileSize = 10 << 20

// Source walks a root folder.
type Source struct {
	root string
}

// New creates a source rooted at root.
func New(root string) *Source {
	return &Source{root: root}
}

// Root returns the folder being read.
func (s *Source) Root() string {
	return s.root
}

// Items calls fn for every supported file under the root, in lexical order.
// Hidden files and directories are skipped.
func (s *Source) Items(ctx context.Context, fn func(driven.SourceItem) error) error {
	if err := s.checkRoot(); err != nil {
		return err
	}

	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != s.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}

		item, err := s.read(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		return fn(item)
	})
}

// Watch calls fn for every supported file created or written under the
// root until ctx is cancelled. Errors returned by fn are logged and do not
// stop the watch. New subdirectories are watched as they appear.
func (s *Source) Watch(ctx context.Context, fn func(driven.SourceItem) error) error {
	if err := s.checkRoot(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addTree(watcher, s.root); err != nil {
		return err
	}
	logger.Info("Watching %s for new documents", s.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
					if err := s.addTree(watcher, event.Name); err != nil {
						logger.Warn("Cannot watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			item, ok := s.handleEvent(event)
			if !ok {
				continue
			}
			if err := fn(item); err != nil {
				logger.Warn("Watch: %s: %v", item.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent turns a create or write of a supported, visible file into an item.
func (s *Source) handleEvent(event fsnotify.Event) (driven.SourceItem, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return driven.SourceItem{}, false
	}
	if isHidden(filepath.Base(event.Name)) || !Supported(event.Name) {
		return driven.SourceItem{}, false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return driven.SourceItem{}, false
	}
	item, err := s.read(event.Name)
	if err != nil {
		logger.Warn("Skipping %s: %v", event.Name, err)
		return driven.SourceItem{}, false
	}
	return item, true
}

func (s *Source) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *Source) read(path string) (driven.SourceItem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return driven.SourceItem{}, err
	}
	if info.Size() > MaxFileSize {
		return driven.SourceItem{}, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return driven.SourceItem{}, err
	}

	content := string(data)
	if isHTML(path) {
		content, err = ExtractText(content)
		if err != nil {
			return driven.SourceItem{}, err
		}
	}

	return driven.SourceItem{Name: s.name(path), Content: strings.TrimSpace(content)}, nil
}

// name is the slash-separated path relative to the root.
func (s *Source) name(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (s *Source) checkRoot() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %w", errors.New(s.root+" is not a directory"))
	}
	return nil
}

// Supported reports whether path has an extension the source reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".html", ".htm":
		return true
	default:
		return false
	}
}

func isHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
