// Package prompts loads guidance text from a markdown library on disk.
//
// The library is a directory of categories, each holding one .md file per
// named block:
//
//	prompts/
//	├── domains/
//	│   ├── filesystem.md
//	│   └── programming.md
//	├── behaviors/
//	│   ├── planning.md
//	│   └── progress.md
//	└── tools/
//	    └── fs-tools.md
//
// Content is cached per category/name key after the first read. Watch keeps
// the cache honest when files change underneath a long-lived store.
package prompts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Category names used by the composer.
const (
	CategoryDomains   = "domains"
	CategoryBehaviors = "behaviors"
	CategoryTools     = "tools"
)

// ErrNotFound is returned when a named guidance file does not exist.
var ErrNotFound = errors.New("guidance not found")

// Store is a cached reader over one guidance library directory.
type Store struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]string

	stopWatch func()
}

// DefaultDir resolves the guidance library location. The
// PROMPT_COMPOSER_PROMPTS_DIR environment variable wins, then ./prompts,
// then ../prompts.
func DefaultDir() string {
	if dir := os.Getenv("PROMPT_COMPOSER_PROMPTS_DIR"); dir != "" {
		return dir
	}
	if _, err := os.Stat("prompts"); err == nil {
		return "prompts"
	}
	if _, err := os.Stat(filepath.Join("..", "prompts")); err == nil {
		return filepath.Join("..", "prompts")
	}
	return "prompts"
}

// NewStore creates a store over dir. Pass "" to resolve the conventional
// location.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{
		dir:   dir,
		cache: make(map[string]string),
	}
}

// Dir returns the library root the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the raw text of one guidance file, cached after first read.
// A missing file returns an error wrapping ErrNotFound.
func (s *Store) Load(category, name string) (string, error) {
	key := category + ":" + name

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, category, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	content := string(data)
	s.mu.Lock()
	s.cache[key] = content
	s.mu.Unlock()
	return content, nil
}

// List returns the sorted names of all guidance files in a category.
func (s *Store) List(category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, category))
	if err != nil {
		return nil, fmt.Errorf("read %s directory: %w", category, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".md"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that the library root and its required categories exist.
func (s *Store) Validate() error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("prompts directory does not exist: %s", s.dir)
	}
	for _, category := range []string{CategoryDomains, CategoryBehaviors} {
		if _, err := os.Stat(filepath.Join(s.dir, category)); err != nil {
			return fmt.Errorf("%s directory does not exist under %s", category, s.dir)
		}
	}
	return nil
}

// invalidate drops one cached entry, given the path of the changed file.
func (s *Store) invalidate(path string) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return
	}
	name, ok := strings.CutSuffix(filepath.Base(rel), ".md")
	if !ok {
		return
	}
	category := filepath.Dir(rel)
	if category == "." || strings.ContainsRune(category, filepath.Separator) {
		return
	}

	s.mu.Lock()
	delete(s.cache, category+":"+name)
	s.mu.Unlock()
}
