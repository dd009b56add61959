// Package defaults provides the embedded starter guidance library and
// capability match rules. promptc init copies them into a project to produce
// a working prompts directory.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed etc/*
var defaultFiles embed.FS

// Scaffold copies the embedded defaults into dir, producing
// dir/server_patterns.yaml plus the domains, behaviors, and tools
// subdirectories. Existing files are kept unless overwrite is set.
func Scaffold(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	return fs.WalkDir(defaultFiles, "etc", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "etc" {
			return nil
		}

		// Use TrimPrefix instead of filepath.Rel because embed.FS always
		// uses forward slashes, but filepath.Rel produces backslashes on
		// Windows.
		relPath := strings.TrimPrefix(path, "etc/")
		destPath := filepath.Join(dir, relPath)

		if d.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		if !overwrite {
			if _, err := os.Stat(destPath); err == nil {
				return nil
			}
		}

		data, err := defaultFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", path, err)
		}
		if err := os.WriteFile(destPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", destPath, err)
		}
		return nil
	})
}

// GetDefault returns the content of one embedded default by name.
// Example: GetDefault("server_patterns.yaml")
func GetDefault(name string) ([]byte, error) {
	return defaultFiles.ReadFile("etc/" + name)
}

// ListDefaults returns the names of all embedded default files.
func ListDefaults() ([]string, error) {
	var files []string
	err := fs.WalkDir(defaultFiles, "etc", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path != "etc" {
			// Keep forward slashes (embed.FS convention).
			files = append(files, strings.TrimPrefix(path, "etc/"))
		}
		return nil
	})
	return files, err
}
