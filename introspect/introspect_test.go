package introspect

import (
	"context"
	"testing"
	"time"

	promptcomposer "github.com/xcud/prompt-composer"
)

func TestToolsConnectFailure(t *testing.T) {
	sc := promptcomposer.ServerConfig{Command: "/nonexistent/provider-binary"}

	_, err := Tools(context.Background(), "ghost", sc, Options{Timeout: 2 * time.Second})
	if err == nil {
		t.Fatal("Expected error for unlaunchable provider")
	}
	if !promptcomposer.IsKind(err, promptcomposer.KindConnection) {
		t.Errorf("Expected KindConnection, got %v", err)
	}
}

func TestToolsEndpointFailure(t *testing.T) {
	_, err := Tools(context.Background(), "remote", promptcomposer.ServerConfig{}, Options{
		Endpoint: "http://127.0.0.1:1/mcp",
		Timeout:  2 * time.Second,
	})
	if err == nil {
		t.Fatal("Expected error for unreachable endpoint")
	}
	if !promptcomposer.IsKind(err, promptcomposer.KindConnection) {
		t.Errorf("Expected KindConnection, got %v", err)
	}
}
