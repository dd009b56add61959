package promptcomposer

import (
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(writeRules(t))
}

func fsConfig(name string) Config {
	return Config{Servers: map[string]ServerConfig{
		name: {Command: "npx", Args: []string{"-y", "@modelcontextprotocol/server-filesystem", "/data"}},
	}}
}

func TestDiscoverMatchByName(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Servers: map[string]ServerConfig{
		"myfs": {Command: "node", Args: []string{"index.js"}},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(tools))
	}
	if tools[0].Name != "myfs.read_file" {
		t.Errorf("Tool name = %s, want myfs.read_file", tools[0].Name)
	}
	if tools[0].Server != "myfs" {
		t.Errorf("Tool server = %s, want myfs", tools[0].Server)
	}
	if tools[1].Name != "myfs.write_file" {
		t.Errorf("Tool name = %s, want myfs.write_file", tools[1].Name)
	}
}

func TestDiscoverMatchByCommand(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Servers: map[string]ServerConfig{
		"docs": {Command: "npx @modelcontextprotocol/server-filesystem"},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 2 || tools[0].Name != "docs.read_file" {
		t.Fatalf("Expected filesystem tools for docs, got %v", tools)
	}
}

func TestDiscoverMatchByArg(t *testing.T) {
	e := newTestEngine(t)

	tools := e.Discover(fsConfig("docs"))
	if len(tools) != 2 || tools[0].Name != "docs.read_file" {
		t.Fatalf("Expected filesystem tools for docs, got %v", tools)
	}
}

func TestDiscoverMatchCaseInsensitive(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Servers: map[string]ServerConfig{
		"FileSystem": {Command: "node"},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 2 || tools[0].Name != "FileSystem.read_file" {
		t.Fatalf("Expected filesystem tools for FileSystem, got %v", tools)
	}
}

func TestDiscoverFirstMatchWins(t *testing.T) {
	e := newTestEngine(t)
	// Matches filesystem by name and data by name; filesystem is listed first.
	cfg := Config{Servers: map[string]ServerConfig{
		"sqlite-files": {Command: "node"},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 2 || tools[0].Name != "sqlite-files.read_file" {
		t.Fatalf("Expected filesystem tools to win, got %v", tools)
	}
}

func TestDiscoverFallback(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Servers: map[string]ServerConfig{
		"custom-thing": {Command: "./bin/custom"},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 1 {
		t.Fatalf("Expected 1 fallback tool, got %d", len(tools))
	}
	if tools[0].Name != "custom-thing.execute" {
		t.Errorf("Tool name = %s, want custom-thing.execute", tools[0].Name)
	}
	if tools[0].Description != "Execute ./bin/custom functionality" {
		t.Errorf("Description = %s", tools[0].Description)
	}
}

func TestDiscoverSortedProviderOrder(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Servers: map[string]ServerConfig{
		"zeta-web":  {Command: "node"},
		"alpha-fsx": {Command: "node"},
	}}

	tools := e.Discover(cfg)
	if len(tools) != 3 {
		t.Fatalf("Expected 3 tools, got %d", len(tools))
	}
	if tools[0].Server != "alpha-fsx" || tools[2].Server != "zeta-web" {
		t.Errorf("Providers out of order: %s, %s", tools[0].Server, tools[2].Server)
	}
}

func TestDiscoverReusesFreshCache(t *testing.T) {
	e := newTestEngine(t)
	cfg := fsConfig("files")
	e.Discover(cfg)

	// Plant a sentinel; a fresh entry must be served without re-inference.
	sentinel := []Tool{{Name: "files.sentinel", Server: "files"}}
	e.mu.Lock()
	e.tools["files"] = sentinel
	e.mu.Unlock()

	tools := e.Discover(cfg)
	if len(tools) != 1 || tools[0].Name != "files.sentinel" {
		t.Fatalf("Expected cached sentinel, got %v", tools)
	}
}

func TestDiscoverRefreshesExpiredCache(t *testing.T) {
	e := newTestEngine(t)
	cfg := fsConfig("files")
	e.Discover(cfg)

	e.mu.Lock()
	e.tools["files"] = []Tool{{Name: "files.sentinel", Server: "files"}}
	e.lastRefresh["files"] = time.Now().Add(-10 * time.Minute)
	e.mu.Unlock()

	tools := e.Discover(cfg)
	if len(tools) != 2 || tools[0].Name != "files.read_file" {
		t.Fatalf("Expected re-inferred tools, got %v", tools)
	}
}

func TestDiscoverKeepsStaleOnRulesFailure(t *testing.T) {
	e := newTestEngine(t)
	cfg := fsConfig("files")
	cached := e.Discover(cfg)

	// Break rule loading and expire the entry; the stale copy must survive.
	e.mu.Lock()
	e.patterns = nil
	e.patternsPath = "/nonexistent/rules.yaml"
	e.lastRefresh["files"] = time.Now().Add(-10 * time.Minute)
	e.mu.Unlock()

	tools := e.Discover(cfg)
	if len(tools) != len(cached) || tools[0].Name != "files.read_file" {
		t.Fatalf("Expected stale cached tools, got %v", tools)
	}
}

func TestDiscoverFallbackOnRulesFailureNotCached(t *testing.T) {
	e := NewEngine("/nonexistent/rules.yaml")
	cfg := fsConfig("files")

	tools := e.Discover(cfg)
	if len(tools) != 1 || tools[0].Name != "files.execute" {
		t.Fatalf("Expected fallback tool, got %v", tools)
	}
	// The degraded result must not poison the cache; the next call retries.
	if cached := e.CachedTools(); len(cached) != 0 {
		t.Errorf("Degraded result was cached: %v", cached)
	}
}

func TestRefreshUnknownServer(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Refresh("ghost", fsConfig("files"))
	if err == nil {
		t.Fatal("Expected error for unknown server")
	}
	if !IsKind(err, KindConfig) {
		t.Errorf("Expected KindConfig, got %v", err)
	}
}

func TestRefreshOverwritesCache(t *testing.T) {
	e := newTestEngine(t)
	e.Store("files", []Tool{{Name: "files.sentinel", Server: "files"}})

	tools, err := e.Refresh("files", fsConfig("files"))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(tools) != 2 || tools[0].Name != "files.read_file" {
		t.Fatalf("Expected inferred tools, got %v", tools)
	}

	cached := e.CachedTools()
	if len(cached) != 2 || cached[0].Name != "files.read_file" {
		t.Fatalf("Cache not overwritten: %v", cached)
	}
}

func TestRefreshPropagatesRulesFailure(t *testing.T) {
	e := NewEngine("/nonexistent/rules.yaml")

	_, err := e.Refresh("files", fsConfig("files"))
	if err == nil {
		t.Fatal("Expected error when rules cannot load")
	}
	if !IsKind(err, KindConfig) {
		t.Errorf("Expected KindConfig, got %v", err)
	}
}

func TestStoreMarksFresh(t *testing.T) {
	e := newTestEngine(t)
	stored := []Tool{{Name: "files.read_file", Description: "from live discovery", Server: "files"}}
	e.Store("files", stored)

	// Discover must serve the stored entry instead of inferring.
	tools := e.Discover(fsConfig("files"))
	if len(tools) != 1 || tools[0].Description != "from live discovery" {
		t.Fatalf("Expected stored tools, got %v", tools)
	}
}

func TestCachedToolsSorted(t *testing.T) {
	e := newTestEngine(t)
	e.Store("zeta", []Tool{{Name: "zeta.execute", Server: "zeta"}})
	e.Store("alpha", []Tool{{Name: "alpha.execute", Server: "alpha"}})

	cached := e.CachedTools()
	if len(cached) != 2 {
		t.Fatalf("Expected 2 cached tools, got %d", len(cached))
	}
	if cached[0].Server != "alpha" || cached[1].Server != "zeta" {
		t.Errorf("Providers out of order: %s, %s", cached[0].Server, cached[1].Server)
	}
}

func TestInferImmediateSkipsCache(t *testing.T) {
	e := newTestEngine(t)
	cfg := fsConfig("files")

	tools := e.InferImmediate(cfg)
	if len(tools) != 2 || tools[0].Name != "files.read_file" {
		t.Fatalf("Expected inferred tools, got %v", tools)
	}
	if cached := e.CachedTools(); len(cached) != 0 {
		t.Errorf("InferImmediate populated the cache: %v", cached)
	}
}

func TestInferImmediateFallbackOnRulesFailure(t *testing.T) {
	e := NewEngine("/nonexistent/rules.yaml")

	tools := e.InferImmediate(fsConfig("files"))
	if len(tools) != 1 || tools[0].Name != "files.execute" {
		t.Fatalf("Expected fallback tool, got %v", tools)
	}
}
