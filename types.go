package promptcomposer

import (
	"encoding/json"
	"strings"
)

// ServerConfig describes one tool-providing connection as declared by the
// caller. Only the launch command, its arguments, and the environment are
// known up front; the tools behind it are inferred.
type ServerConfig struct {
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Config is the caller's full map of tool providers, keyed by provider name.
// The JSON shape matches the common mcpServers configuration format.
type Config struct {
	Servers map[string]ServerConfig `json:"mcpServers" yaml:"mcpServers"`
}

// Tool is one abstract capability a provider exposes. Name is always
// qualified as provider.localname.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Server      string          `json:"server"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

// SessionState carries optional progress context for an ongoing task.
// Every field may be absent; absent means unknown.
type SessionState struct {
	ToolCallCount *int    `json:"tool_call_count,omitempty"`
	OriginalTask  *string `json:"original_task,omitempty"`
	HasPlan       *bool   `json:"has_plan,omitempty"`
	LastAction    *string `json:"last_action,omitempty"`
	CurrentStep   *string `json:"current_step,omitempty"`
}

// Complexity is the coarse two-level classification of a request.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// Request is one composition request.
type Request struct {
	UserPrompt    string        `json:"user_prompt"`
	Config        Config        `json:"mcp_config"`
	SessionState  *SessionState `json:"session_state,omitempty"`
	DomainHints   []string      `json:"domain_hints,omitempty"`
	BehaviorHints []string      `json:"behavior_hints,omitempty"`

	// Complexity overrides auto-detection when set. The value is echoed back
	// verbatim in the response.
	Complexity Complexity `json:"task_complexity,omitempty"`
}

// Response is the outcome of one composition.
type Response struct {
	SystemPrompt    string     `json:"system_prompt"`
	AppliedModules  []string   `json:"applied_modules"`
	RecognizedTools []string   `json:"recognized_tools"`
	Complexity      Complexity `json:"complexity_assessment"`
}

// Status reports what the composer can currently serve.
type Status struct {
	Available bool     `json:"available"`
	Source    string   `json:"source"`
	Version   string   `json:"version"`
	Domains   []string `json:"domains"`
	Behaviors []string `json:"behaviors"`
	Tools     []string `json:"tools"`
}

// toolCategory groups capabilities for module applicability checks.
type toolCategory int

const (
	categoryCustom toolCategory = iota
	categoryFileSystem
	categoryWebAPI
	categoryDataAnalysis
	categorySystemAdmin
)

// categorize buckets a tool by its name and description.
func categorize(t Tool) toolCategory {
	name := strings.ToLower(t.Name)
	desc := strings.ToLower(t.Description)
	switch {
	case containsAny(name, "file", "directory", "read", "write"):
		return categoryFileSystem
	case containsAny(desc, "http", "api", "web"):
		return categoryWebAPI
	case containsAny(desc, "data", "csv", "analysis"):
		return categoryDataAnalysis
	case containsAny(desc, "system", "process", "command"):
		return categorySystemAdmin
	default:
		return categoryCustom
	}
}

func hasCategory(tools []Tool, c toolCategory) bool {
	for _, t := range tools {
		if categorize(t) == c {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains at least one of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
