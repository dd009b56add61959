package promptcomposer

import (
	"strings"
	"testing"
)

func TestIsComplexTask(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"refactor the auth module", true},
		{"Implement a parser", true},
		{"create a backup of the database", true},
		{"create backup.txt", false},
		{"check the system load", false},
		{"list files", false},
		{"what time is it", false},
		{strings.Repeat("x", 101), true},
		{strings.Repeat("x", 100), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isComplexTask(tt.prompt); got != tt.want {
			t.Errorf("isComplexTask(%q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}

func TestAssessComplexity(t *testing.T) {
	twoServers := Config{Servers: map[string]ServerConfig{
		"a": {Command: "a"}, "b": {Command: "b"},
	}}
	threeServers := Config{Servers: map[string]ServerConfig{
		"a": {Command: "a"}, "b": {Command: "b"}, "c": {Command: "c"},
	}}

	tests := []struct {
		name string
		req  Request
		want Complexity
	}{
		{"keyword", Request{UserPrompt: "refactor the parser"}, ComplexityComplex},
		{"keyword case-insensitive", Request{UserPrompt: "REFACTOR everything"}, ComplexityComplex},
		{"short create counts", Request{UserPrompt: "create backup.txt"}, ComplexityComplex},
		{"system counts", Request{UserPrompt: "check the system load"}, ComplexityComplex},
		{"long prompt", Request{UserPrompt: strings.Repeat("x", 101)}, ComplexityComplex},
		{"many servers", Request{UserPrompt: "hi", Config: threeServers}, ComplexityComplex},
		{"two servers stay simple", Request{UserPrompt: "hi", Config: twoServers}, ComplexitySimple},
		{"plain prompt", Request{UserPrompt: "list files"}, ComplexitySimple},
		{"override wins", Request{UserPrompt: "refactor everything", Complexity: ComplexitySimple}, ComplexitySimple},
		{"override passes through", Request{UserPrompt: "hi", Complexity: Complexity("extreme")}, Complexity("extreme")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessComplexity(&tt.req); got != tt.want {
				t.Errorf("assessComplexity = %v, want %v", got, tt.want)
			}
		})
	}
}
