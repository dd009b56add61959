package promptcomposer

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PatternsFile is the file name of the match-rule document.
const PatternsFile = "server_patterns.yaml"

// ToolTemplate is one capability a matched category emits. The template name
// is qualified with the provider name at inference time.
type ToolTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// CategoryPattern recognizes one family of providers by substring patterns
// against the provider name, launch command, and arguments.
type CategoryPattern struct {
	Name            string         `yaml:"name"`
	NamePatterns    []string       `yaml:"name_patterns"`
	CommandPatterns []string       `yaml:"command_patterns"`
	ArgPatterns     []string       `yaml:"arg_patterns"`
	Tools           []ToolTemplate `yaml:"tools"`
}

// Patterns is the complete ordered match-rule set. List order is match
// priority: the first category with any matching pattern wins.
type Patterns struct {
	Categories []CategoryPattern `yaml:"categories"`
}

// FindPatternsFile locates the match-rule document. PROMPT_COMPOSER_PATTERNS
// takes precedence, then a short list of conventional paths; the first
// existing path wins.
func FindPatternsFile() (string, error) {
	candidates := patternCandidates()
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", configErr("match-rule file not found, expected %s", filepath.Join("prompts", PatternsFile))
}

func patternCandidates() []string {
	var paths []string
	if p := os.Getenv("PROMPT_COMPOSER_PATTERNS"); p != "" {
		paths = append(paths, p)
	}
	return append(paths,
		filepath.Join("prompts", PatternsFile),
		filepath.Join("..", "prompts", PatternsFile),
		PatternsFile,
	)
}

// LoadPatterns reads and parses the match-rule document at path.
func LoadPatterns(path string) (*Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configWrap(err, "read match rules %s", path)
	}
	return ParsePatterns(data)
}

// ParsePatterns parses a match-rule document from raw bytes.
func ParsePatterns(data []byte) (*Patterns, error) {
	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, configWrap(err, "parse match rules")
	}
	for i, c := range p.Categories {
		if c.Name == "" {
			return nil, configErr("match rules: category %d has no name", i)
		}
	}
	return &p, nil
}
