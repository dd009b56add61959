package promptcomposer

import "strings"

// Keyword families marking a request as complex. The task-planning trigger
// uses the narrower family ("create a" rather than any "create", and no
// "system") so short imperative prompts do not pull in planning guidance
// by themselves.
var (
	complexityKeywords = []string{
		"refactor", "implement", "create", "build", "develop",
		"comprehensive", "analysis", "strategy", "plan", "design",
		"multiple", "all", "entire", "complete", "full", "system",
	}
	planningKeywords = []string{
		"refactor", "implement", "create a", "build", "develop",
		"comprehensive", "analysis", "strategy", "plan", "design",
		"multiple", "all", "entire", "complete", "full",
	}
)

// Keyword families pulling in a domain guidance section.
var (
	programmingKeywords = []string{
		"code", "function", "class", "refactor", "implement",
		"debug", "fix", "python", "rust", "javascript", "api",
	}
	analysisKeywords = []string{
		"analyze", "analysis", "data", "csv", "trends", "statistics",
		"report", "insights", "metrics", "dashboard",
	}
	systemKeywords = []string{
		"server", "deployment", "infrastructure", "configuration",
		"security", "backup", "monitor", "admin", "service",
	}
)

// isComplexTask decides whether a prompt warrants planning guidance.
func isComplexTask(userPrompt string) bool {
	return containsAny(strings.ToLower(userPrompt), planningKeywords...) ||
		len(userPrompt) > 100
}

// assessComplexity produces the complexity reported in responses. A caller
// override wins verbatim; otherwise keywords, prompt length, and provider
// spread decide.
func assessComplexity(req *Request) Complexity {
	if req.Complexity != "" {
		return req.Complexity
	}
	if containsAny(strings.ToLower(req.UserPrompt), complexityKeywords...) ||
		len(req.UserPrompt) > 100 ||
		len(req.Config.Servers) > 2 {
		return ComplexityComplex
	}
	return ComplexitySimple
}
