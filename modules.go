package promptcomposer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xcud/prompt-composer/internal/logging"
	"github.com/xcud/prompt-composer/prompts"
)

// GuidanceStore is the source of named guidance text blocks, addressed by
// category and name. *prompts.Store is the standard implementation; anything
// satisfying the interface works.
type GuidanceStore interface {
	Load(category, name string) (string, error)
	List(category string) ([]string, error)
	Validate() error
}

// module is one selectable guidance section: a name, an applicability
// predicate, and a renderer. The full set is a closed table below; selection
// order is the table order, never insertion order of matches.
type module struct {
	name    string
	applies func(tools []Tool, userPrompt string, session SessionState) bool
	render  func(tools []Tool, session SessionState, store GuidanceStore) (string, error)
}

var toolUsageModule = module{
	name: "tool_usage",
	applies: func(tools []Tool, _ string, _ SessionState) bool {
		return len(tools) > 0
	},
	render: func(tools []Tool, _ SessionState, store GuidanceStore) (string, error) {
		if len(tools) == 0 {
			return "", nil
		}
		var b strings.Builder
		b.WriteString("You have access to the following tools:")
		for _, t := range tools {
			fmt.Fprintf(&b, "\n- %s: %s", t.Name, t.Description)
		}
		// The general usage guidance is optional: without it the tool list
		// still stands on its own.
		guidance, err := loadGuidance(store, prompts.CategoryBehaviors, "tools")
		if err != nil {
			logging.Warnf("tool usage guidance unavailable: %v", err)
			return b.String(), nil
		}
		if guidance != "" {
			b.WriteString("\n\n")
			b.WriteString(guidance)
		}
		return b.String(), nil
	},
}

var filesystemModule = module{
	name: "filesystem",
	applies: func(tools []Tool, _ string, _ SessionState) bool {
		return hasCategory(tools, categoryFileSystem)
	},
	render: func(tools []Tool, _ SessionState, store GuidanceStore) (string, error) {
		if !hasCategory(tools, categoryFileSystem) {
			return "", nil
		}
		guidance, err := loadGuidance(store, prompts.CategoryDomains, "filesystem")
		if err != nil {
			return "", err
		}
		return "FILE SYSTEM GUIDANCE:\n" + guidance, nil
	},
}

var programmingModule = module{
	name: "programming",
	applies: func(tools []Tool, userPrompt string, _ SessionState) bool {
		return hasCategory(tools, categoryFileSystem) &&
			containsAny(strings.ToLower(userPrompt), programmingKeywords...)
	},
	render: func(_ []Tool, _ SessionState, store GuidanceStore) (string, error) {
		guidance, err := loadGuidance(store, prompts.CategoryDomains, "programming")
		if err != nil {
			return "", err
		}
		return "PROGRAMMING BEST PRACTICES:\n" + guidance, nil
	},
}

var analysisModule = module{
	name: "analysis",
	applies: func(tools []Tool, userPrompt string, _ SessionState) bool {
		return containsAny(strings.ToLower(userPrompt), analysisKeywords...) ||
			hasCategory(tools, categoryDataAnalysis)
	},
	render: func(_ []Tool, _ SessionState, store GuidanceStore) (string, error) {
		guidance, err := loadGuidance(store, prompts.CategoryDomains, "analysis")
		if err != nil {
			return "", err
		}
		return "DATA ANALYSIS METHODOLOGY:\n" + guidance, nil
	},
}

var systemModule = module{
	name: "system",
	applies: func(tools []Tool, userPrompt string, _ SessionState) bool {
		return containsAny(strings.ToLower(userPrompt), systemKeywords...) ||
			hasCategory(tools, categorySystemAdmin)
	},
	render: func(_ []Tool, _ SessionState, store GuidanceStore) (string, error) {
		guidance, err := loadGuidance(store, prompts.CategoryDomains, "system")
		if err != nil {
			return "", err
		}
		return "SYSTEM ADMINISTRATION GUIDANCE:\n" + guidance, nil
	},
}

var taskPlanningModule = module{
	name: "task_planning",
	applies: func(_ []Tool, userPrompt string, session SessionState) bool {
		return !session.planned() && isComplexTask(userPrompt)
	},
	render: func(_ []Tool, session SessionState, store GuidanceStore) (string, error) {
		if session.planned() {
			return "", nil
		}
		guidance, err := loadGuidance(store, prompts.CategoryBehaviors, "planning")
		if err != nil {
			return "", err
		}
		return "COMPLEX TASK PLANNING:\n" + guidance, nil
	},
}

var progressMonitoringModule = module{
	name: "progress_monitoring",
	applies: func(_ []Tool, _ string, session SessionState) bool {
		return session.toolCalls() >= 6
	},
	render: func(_ []Tool, session SessionState, store GuidanceStore) (string, error) {
		guidance, err := loadGuidance(store, prompts.CategoryBehaviors, "progress")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("PROGRESS MONITORING:\nYour original task was: %q\n\nYou've executed %d tool calls so far.\n\n%s",
			session.task(), session.toolCalls(), guidance), nil
	},
}

// genericModule loads a same-named template from one category. Unknown hint
// names land here; a missing template contributes empty text rather than an
// error so callers can name speculative sections harmlessly.
func genericModule(category, name string) module {
	return module{
		name: name,
		applies: func(_ []Tool, _ string, _ SessionState) bool {
			return true
		},
		render: func(_ []Tool, _ SessionState, store GuidanceStore) (string, error) {
			guidance, err := loadGuidance(store, category, name)
			if errors.Is(err, prompts.ErrNotFound) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			return strings.ToUpper(name) + ":\n" + guidance, nil
		},
	}
}

// Auto-detect evaluation order. Domain sections come before behavior
// sections, each axis in its fixed precedence.
var (
	domainModules   = []module{filesystemModule, programmingModule, analysisModule, systemModule}
	behaviorModules = []module{taskPlanningModule, progressMonitoringModule}
)

// selectModules decides which guidance sections apply. A nil hint list means
// auto-detect for that axis; a non-nil list fully determines the axis, in
// hint order, without consulting predicates. The tool-usage section is
// always first whenever any capabilities exist.
func selectModules(tools []Tool, userPrompt string, session SessionState, domainHints, behaviorHints []string) []module {
	var selected []module

	if len(tools) > 0 {
		selected = append(selected, toolUsageModule)
	}

	if domainHints != nil {
		for _, name := range domainHints {
			switch name {
			case "filesystem":
				selected = append(selected, filesystemModule)
			case "programming":
				selected = append(selected, programmingModule)
			case "analysis":
				selected = append(selected, analysisModule)
			case "system":
				selected = append(selected, systemModule)
			default:
				selected = append(selected, genericModule(prompts.CategoryDomains, name))
			}
		}
	} else {
		for _, m := range domainModules {
			if m.applies(tools, userPrompt, session) {
				selected = append(selected, m)
			}
		}
	}

	if behaviorHints != nil {
		for _, name := range behaviorHints {
			switch name {
			case "planning":
				selected = append(selected, taskPlanningModule)
			case "progress":
				selected = append(selected, progressMonitoringModule)
			default:
				selected = append(selected, genericModule(prompts.CategoryBehaviors, name))
			}
		}
	} else {
		for _, m := range behaviorModules {
			if m.applies(tools, userPrompt, session) {
				selected = append(selected, m)
			}
		}
	}

	return selected
}

// loadGuidance reads one template and applies the markdown extraction.
func loadGuidance(store GuidanceStore, category, name string) (string, error) {
	content, err := store.Load(category, name)
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			return "", err
		}
		return "", loadWrap(err, "load %s/%s", category, name)
	}
	return prompts.Extract(content), nil
}

func (s SessionState) toolCalls() int {
	if s.ToolCallCount != nil {
		return *s.ToolCallCount
	}
	return 0
}

func (s SessionState) planned() bool {
	return s.HasPlan != nil && *s.HasPlan
}

func (s SessionState) task() string {
	if s.OriginalTask != nil {
		return *s.OriginalTask
	}
	return "the current task"
}
