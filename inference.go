package promptcomposer

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xcud/prompt-composer/internal/logging"
)

// DefaultCacheTTL is how long inferred capabilities stay fresh per provider.
const DefaultCacheTTL = 5 * time.Minute

// Engine infers the capabilities a provider exposes from its declared
// name, command, and arguments. Results are cached per provider name with a
// time-based expiry. All cache access is serialized by one mutex; inference
// is cheap substring matching so whole-cache granularity is fine.
type Engine struct {
	mu          sync.Mutex
	tools       map[string][]Tool
	lastRefresh map[string]time.Time
	ttl         time.Duration

	patternsPath string
	patterns     *Patterns
}

// NewEngine creates an inference engine. patternsPath overrides the
// match-rule search path; pass "" to use the conventional locations.
func NewEngine(patternsPath string) *Engine {
	return &Engine{
		tools:        make(map[string][]Tool),
		lastRefresh:  make(map[string]time.Time),
		ttl:          DefaultCacheTTL,
		patternsPath: patternsPath,
	}
}

// Discover returns capabilities for every provider in cfg. Fresh cache
// entries are reused; expired or missing entries are re-inferred. A provider
// whose re-inference fails keeps its stale entry, or degrades to the generic
// fallback when nothing was cached. Discover never fails.
func (e *Engine) Discover(cfg Config) []Tool {
	e.mu.Lock()
	defer e.mu.Unlock()

	var all []Tool
	for _, name := range sortedServerNames(cfg) {
		sc := cfg.Servers[name]
		if !e.needsRefresh(name) {
			all = append(all, e.tools[name]...)
			continue
		}
		tools, err := e.inferLocked(name, sc)
		if err != nil {
			logging.Warnf("tool inference for %s failed: %v", name, err)
			if cached, ok := e.tools[name]; ok {
				all = append(all, cached...)
			} else {
				all = append(all, fallbackTools(name, sc)...)
			}
			continue
		}
		e.tools[name] = tools
		e.lastRefresh[name] = time.Now()
		all = append(all, tools...)
	}
	return all
}

// Refresh re-infers one provider unconditionally, overwriting any cached
// entry regardless of age. The provider must be present in cfg.
func (e *Engine) Refresh(name string, cfg Config) ([]Tool, error) {
	sc, ok := cfg.Servers[name]
	if !ok {
		return nil, configErr("server %s not found in configuration", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tools, err := e.inferLocked(name, sc)
	if err != nil {
		return nil, err
	}
	e.tools[name] = tools
	e.lastRefresh[name] = time.Now()
	return tools, nil
}

// Store installs tools for one provider as if freshly inferred. Used when
// capabilities were discovered out of band.
func (e *Engine) Store(name string, tools []Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tools[name] = tools
	e.lastRefresh[name] = time.Now()
}

// CachedTools returns every cached capability across all providers, in
// sorted provider order. It does not trigger inference.
func (e *Engine) CachedTools() []Tool {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []Tool
	for _, name := range names {
		all = append(all, e.tools[name]...)
	}
	return all
}

// InferImmediate infers capabilities for every provider in cfg without
// touching the cache. Any per-provider failure degrades to the generic
// fallback.
func (e *Engine) InferImmediate(cfg Config) []Tool {
	e.mu.Lock()
	defer e.mu.Unlock()

	var all []Tool
	for _, name := range sortedServerNames(cfg) {
		sc := cfg.Servers[name]
		tools, err := e.inferLocked(name, sc)
		if err != nil {
			logging.Warnf("tool inference for %s failed: %v", name, err)
			tools = fallbackTools(name, sc)
		}
		all = append(all, tools...)
	}
	return all
}

func (e *Engine) needsRefresh(name string) bool {
	last, ok := e.lastRefresh[name]
	if !ok {
		return true
	}
	return time.Since(last) > e.ttl
}

// inferLocked matches one provider against the configured categories in
// priority order. No category matching is not an error: every provider
// yields at least the generic execute capability.
func (e *Engine) inferLocked(name string, sc ServerConfig) ([]Tool, error) {
	rules, err := e.rulesLocked()
	if err != nil {
		return nil, err
	}
	for _, cat := range rules.Categories {
		if matchesCategory(name, sc, cat) {
			return toolsFromTemplates(name, cat.Tools), nil
		}
	}
	return fallbackTools(name, sc), nil
}

// rulesLocked loads the match-rule document on first use and keeps it for
// the engine's lifetime. A failed load is retried on the next call.
func (e *Engine) rulesLocked() (*Patterns, error) {
	if e.patterns != nil {
		return e.patterns, nil
	}
	path := e.patternsPath
	if path == "" {
		p, err := FindPatternsFile()
		if err != nil {
			return nil, err
		}
		path = p
	}
	rules, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	e.patterns = rules
	return rules, nil
}

// matchesCategory checks the three pattern families with case-insensitive
// unanchored substring matching.
func matchesCategory(name string, sc ServerConfig, cat CategoryPattern) bool {
	nameLower := strings.ToLower(name)
	for _, p := range cat.NamePatterns {
		if strings.Contains(nameLower, strings.ToLower(p)) {
			return true
		}
	}
	cmdLower := strings.ToLower(sc.Command)
	for _, p := range cat.CommandPatterns {
		if strings.Contains(cmdLower, strings.ToLower(p)) {
			return true
		}
	}
	for _, p := range cat.ArgPatterns {
		pl := strings.ToLower(p)
		for _, arg := range sc.Args {
			if strings.Contains(strings.ToLower(arg), pl) {
				return true
			}
		}
	}
	return false
}

func toolsFromTemplates(server string, templates []ToolTemplate) []Tool {
	tools := make([]Tool, 0, len(templates))
	for _, t := range templates {
		tools = append(tools, Tool{
			Name:        server + "." + t.Name,
			Description: t.Description,
			Server:      server,
		})
	}
	return tools
}

func fallbackTools(server string, sc ServerConfig) []Tool {
	return []Tool{{
		Name:        server + ".execute",
		Description: fmt.Sprintf("Execute %s functionality", sc.Command),
		Server:      server,
	}}
}

func sortedServerNames(cfg Config) []string {
	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
