// Package promptcomposer assembles system prompts for tool-using agents.
//
// Given a provider configuration and a user prompt, a Composer infers which
// capabilities the providers expose, selects the guidance sections that
// apply, renders them from a markdown template library, and joins them into
// one prompt. Inference is pattern-based and never launches a provider;
// see the introspect package for live discovery.
package promptcomposer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xcud/prompt-composer/internal/logging"
	"github.com/xcud/prompt-composer/prompts"
)

// Version is reported by Status and the CLI.
const Version = "1.0.0"

// Latency budgets. Exceeding one is logged, never an error.
const (
	composeBudget       = 50 * time.Millisecond
	cachedComposeBudget = 10 * time.Millisecond
)

// Composer ties the capability engine and the guidance store into the
// composition pipeline. Safe for concurrent use.
type Composer struct {
	engine *Engine
	store  GuidanceStore
}

// Options configure a Composer. Zero values resolve to the conventional
// defaults: guidance under the nearest prompts directory, match rules from
// the standard search path, five minute capability cache.
type Options struct {
	// PromptsDir points at the guidance library root.
	PromptsDir string
	// PatternsPath points at the match-rule document.
	PatternsPath string
	// Store replaces the filesystem guidance store entirely. When set,
	// PromptsDir is ignored.
	Store GuidanceStore
	// CacheTTL overrides how long inferred capabilities stay fresh.
	CacheTTL time.Duration
}

// New builds a Composer from opts.
func New(opts Options) *Composer {
	store := opts.Store
	if store == nil {
		store = prompts.NewStore(opts.PromptsDir)
	}
	engine := NewEngine(opts.PatternsPath)
	if opts.CacheTTL > 0 {
		engine.ttl = opts.CacheTTL
	}
	return &Composer{engine: engine, store: store}
}

// Compose runs the full pipeline: validate the guidance library, infer
// capabilities from the provider config, select applicable sections, render
// them, and assemble the final prompt. The only failure is a KindConfig
// error for an unusable guidance library; everything downstream degrades.
func (c *Composer) Compose(req *Request) (*Response, error) {
	start := time.Now()
	if err := c.store.Validate(); err != nil {
		return nil, configWrap(err, "guidance library unusable")
	}

	tools := c.engine.Discover(req.Config)
	resp := c.assemble(req, tools)

	if d := time.Since(start); d > composeBudget {
		logging.Warnf("compose took %s, budget is %s", d, composeBudget)
	}
	return resp, nil
}

// ComposeCached composes from already-cached capabilities, skipping the
// discovery step entirely. With a cold cache it falls back to a one-shot
// inference that leaves the cache untouched.
func (c *Composer) ComposeCached(req *Request) (*Response, error) {
	start := time.Now()
	if err := c.store.Validate(); err != nil {
		return nil, configWrap(err, "guidance library unusable")
	}

	tools := c.engine.CachedTools()
	if len(tools) == 0 {
		tools = c.engine.InferImmediate(req.Config)
	}
	resp := c.assemble(req, tools)

	if d := time.Since(start); d > cachedComposeBudget {
		logging.Warnf("cached compose took %s, budget is %s", d, cachedComposeBudget)
	}
	return resp, nil
}

// assemble selects, renders, and joins the guidance sections for one
// request. Render failures skip the section with a warning.
func (c *Composer) assemble(req *Request, tools []Tool) *Response {
	session := SessionState{}
	if req.SessionState != nil {
		session = *req.SessionState
	}

	var parts, applied []string
	for _, m := range selectModules(tools, req.UserPrompt, session, req.DomainHints, req.BehaviorHints) {
		text, err := m.render(tools, session, c.store)
		if err != nil {
			logging.Warnf("section %s failed to render: %v", m.name, err)
			continue
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
		applied = append(applied, m.name)
	}

	for _, name := range sortedServerNames(req.Config) {
		text, err := loadGuidance(c.store, prompts.CategoryTools, name)
		if err != nil {
			if !errors.Is(err, prompts.ErrNotFound) {
				logging.Warnf("tool guidance for %s failed to render: %v", name, err)
			}
			continue
		}
		if text == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(name)+" TOOL GUIDANCE:\n"+text)
		applied = append(applied, "tool:"+name)
	}

	prompt := strings.Join(parts, "\n\n")
	if prompt == "" && len(tools) > 0 {
		prompt = fmt.Sprintf("You have access to %d tools. Use them appropriately to complete the user's request.", len(tools))
	}

	return &Response{
		SystemPrompt:    prompt,
		AppliedModules:  applied,
		RecognizedTools: providerNames(tools),
		Complexity:      assessComplexity(req),
	}
}

// RefreshServer re-infers one provider's capabilities immediately, bypassing
// the cache TTL. The provider must appear in cfg.
func (c *Composer) RefreshServer(name string, cfg Config) ([]Tool, error) {
	return c.engine.Refresh(name, cfg)
}

// SetTools installs externally discovered capabilities for one provider,
// replacing whatever inference had cached for it.
func (c *Composer) SetTools(name string, tools []Tool) {
	c.engine.Store(name, tools)
}

// Status reports whether composition can currently succeed and which
// guidance templates are on disk.
func (c *Composer) Status() Status {
	st := Status{Source: "native", Version: Version}
	if err := c.store.Validate(); err != nil {
		logging.Warnf("status: guidance library unusable: %v", err)
		return st
	}
	st.Available = true
	st.Domains = c.listOrEmpty(prompts.CategoryDomains)
	st.Behaviors = c.listOrEmpty(prompts.CategoryBehaviors)
	st.Tools = c.listOrEmpty(prompts.CategoryTools)
	return st
}

// ListDomains names the domain guidance templates.
func (c *Composer) ListDomains() ([]string, error) {
	return c.store.List(prompts.CategoryDomains)
}

// ListBehaviors names the behavior guidance templates.
func (c *Composer) ListBehaviors() ([]string, error) {
	return c.store.List(prompts.CategoryBehaviors)
}

// ListTools names the per-provider tool guidance templates.
func (c *Composer) ListTools() ([]string, error) {
	return c.store.List(prompts.CategoryTools)
}

// Module returns the raw markdown of one guidance template.
func (c *Composer) Module(category, name string) (string, error) {
	return c.store.Load(category, name)
}

// Watch hot-reloads guidance edits until ctx is cancelled. Stores without
// watch support make this a no-op.
func (c *Composer) Watch(ctx context.Context) error {
	if w, ok := c.store.(watchable); ok {
		return w.Watch(ctx)
	}
	return nil
}

// Close releases the watcher, if any.
func (c *Composer) Close() {
	if w, ok := c.store.(watchable); ok {
		w.Stop()
	}
}

type watchable interface {
	Watch(ctx context.Context) error
	Stop()
}

func (c *Composer) listOrEmpty(category string) []string {
	names, err := c.store.List(category)
	if err != nil {
		logging.Debugf("list %s: %v", category, err)
		return []string{}
	}
	return names
}

// providerNames collapses tools to their unique providers, sorted.
func providerNames(tools []Tool) []string {
	seen := make(map[string]bool, len(tools))
	names := []string{}
	for _, t := range tools {
		if !seen[t.Server] {
			seen[t.Server] = true
			names = append(names, t.Server)
		}
	}
	sort.Strings(names)
	return names
}
