package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults
var defaultFS embed.FS

// placeholders is the number of %s verbs each known prompt must carry.
var placeholders = map[string]int{
	driven.PromptAnswer:       2,
	driven.PromptAnswerSystem: 0,
}

// PromptStore serves answer prompts from user-editable files in a directory,
// seeded from the built-in defaults the first time a prompt is loaded.
// A file that is missing, unreadable or has the wrong number of %s verbs is
// replaced by the built-in default for that read.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a prompt store over dir. An empty dir means
// ~/.recall/prompts. Nothing is written until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".recall", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := builtin(name)

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		logger.Warn("Using built-in %s prompt: %v", name, err)
		prompt = fallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if err := checkPlaceholders(name, prompt); err != nil {
		return "", err
	}
	return prompt, nil
}

// seed copies every built-in file that does not exist yet into the directory.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	entries, err := fs.ReadDir(defaultFS, "defaults")
	if err != nil {
		s.seedErr = err
		return
	}
	for _, e := range entries {
		dst := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := defaultFS.ReadFile(path.Join("defaults", e.Name()))
		if err != nil {
			s.seedErr = err
			return
		}
		if err := os.WriteFile(dst, data, 0600); err != nil {
			s.seedErr = fmt.Errorf("create default prompt %q: %w", e.Name(), err)
			return
		}
	}
}

func builtin(name string) (string, bool) {
	if _, ok := placeholders[name]; !ok {
		return "", false
	}
	data, err := defaultFS.ReadFile(path.Join("defaults", name+".txt"))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func checkPlaceholders(name, prompt string) error {
	want, ok := placeholders[name]
	if !ok {
		return nil
	}
	if got := strings.Count(prompt, "%s"); got != want {
		return fmt.Errorf("%s.txt has %d %%s placeholders, want %d", name, got, want)
	}
	return nil
}
