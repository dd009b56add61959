package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeLibrary builds a minimal guidance library on disk.
func writeLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"domains/filesystem.md": "# FS\n## Rules\n- read before writing",
		"domains/analysis.md":   "# Analysis\n- check the data",
		"behaviors/planning.md": "# Planning\n- plan first",
		"tools/fs-tools.md":     "# FS Provider\n- batch reads",
		"domains/notes.txt":     "not guidance",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	s := NewStore(writeLibrary(t))

	content, err := s.Load(CategoryDomains, "filesystem")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if content != "# FS\n## Rules\n- read before writing" {
		t.Errorf("Load returned %q", content)
	}
}

func TestLoadCachesFirstRead(t *testing.T) {
	dir := writeLibrary(t)
	s := NewStore(dir)

	first, err := s.Load(CategoryDomains, "filesystem")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	path := filepath.Join(dir, "domains", "filesystem.md")
	if err := os.WriteFile(path, []byte("# Changed"), 0644); err != nil {
		t.Fatal(err)
	}

	second, err := s.Load(CategoryDomains, "filesystem")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second != first {
		t.Errorf("Cache missed: got %q after rewrite", second)
	}
}

func TestLoadNotFound(t *testing.T) {
	s := NewStore(writeLibrary(t))

	_, err := s.Load(CategoryDomains, "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	dir := writeLibrary(t)
	s := NewStore(dir)

	if _, err := s.Load(CategoryDomains, "filesystem"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	path := filepath.Join(dir, "domains", "filesystem.md")
	if err := os.WriteFile(path, []byte("# Changed\n- new rule"), 0644); err != nil {
		t.Fatal(err)
	}
	s.invalidate(path)

	content, err := s.Load(CategoryDomains, "filesystem")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if content != "# Changed\n- new rule" {
		t.Errorf("Expected reloaded content, got %q", content)
	}
}

func TestInvalidateIgnoresNestedPaths(t *testing.T) {
	dir := writeLibrary(t)
	s := NewStore(dir)

	if _, err := s.Load(CategoryDomains, "filesystem"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// A path outside the category layout must not disturb the cache.
	s.invalidate(filepath.Join(dir, "domains", "nested", "filesystem.md"))
	s.invalidate(filepath.Join(dir, "filesystem.md"))

	if err := os.WriteFile(filepath.Join(dir, "domains", "filesystem.md"), []byte("# Changed"), 0644); err != nil {
		t.Fatal(err)
	}
	content, err := s.Load(CategoryDomains, "filesystem")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if content == "# Changed" {
		t.Error("Cache entry was dropped for an unrelated path")
	}
}

func TestList(t *testing.T) {
	s := NewStore(writeLibrary(t))

	names, err := s.List(CategoryDomains)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	// Sorted, .md files only.
	if len(names) != 2 || names[0] != "analysis" || names[1] != "filesystem" {
		t.Errorf("List returned %v", names)
	}
}

func TestListMissingCategory(t *testing.T) {
	s := NewStore(writeLibrary(t))

	if _, err := s.List("nonexistent"); err == nil {
		t.Error("Expected error for missing category")
	}
}

func TestValidate(t *testing.T) {
	s := NewStore(writeLibrary(t))
	if err := s.Validate(); err != nil {
		t.Errorf("Validate failed on a complete library: %v", err)
	}

	if err := NewStore(filepath.Join(t.TempDir(), "missing")).Validate(); err == nil {
		t.Error("Expected error for missing root")
	}

	partial := t.TempDir()
	if err := os.MkdirAll(filepath.Join(partial, "domains"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := NewStore(partial).Validate(); err == nil {
		t.Error("Expected error for missing behaviors directory")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("PROMPT_COMPOSER_PROMPTS_DIR", "/etc/guidance")
	if dir := DefaultDir(); dir != "/etc/guidance" {
		t.Errorf("DefaultDir = %s, want /etc/guidance", dir)
	}
}

func TestDefaultDirConventionalPaths(t *testing.T) {
	t.Setenv("PROMPT_COMPOSER_PROMPTS_DIR", "")

	parent := t.TempDir()
	if err := os.MkdirAll(filepath.Join(parent, "prompts"), 0755); err != nil {
		t.Fatal(err)
	}
	child := filepath.Join(parent, "sub")
	if err := os.MkdirAll(child, 0755); err != nil {
		t.Fatal(err)
	}

	t.Chdir(parent)
	if dir := DefaultDir(); dir != "prompts" {
		t.Errorf("DefaultDir = %s, want prompts", dir)
	}

	t.Chdir(child)
	if dir := DefaultDir(); dir != filepath.Join("..", "prompts") {
		t.Errorf("DefaultDir = %s, want ../prompts", dir)
	}
}

func TestStopWithoutWatch(t *testing.T) {
	s := NewStore(writeLibrary(t))
	s.Stop()
}
