// Package introspect discovers a provider's real tools by launching it and
// asking, as a complement to pattern inference. Results feed back into a
// Composer via SetTools.
package introspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/internal/logging"
)

// Options tune one discovery run.
type Options struct {
	// Timeout bounds the whole connect-and-list exchange. Zero means 30s.
	Timeout time.Duration
	// Endpoint dials a streamable HTTP provider instead of launching the
	// configured command.
	Endpoint string
}

const defaultTimeout = 30 * time.Second

// Tools connects to the provider described by sc and returns its actual
// tool list, names qualified as provider.localname. Connection failures are
// KindConnection errors; a connected provider that cannot enumerate its
// tools is KindDiscovery.
func Tools(ctx context.Context, name string, sc promptcomposer.ServerConfig, opts Options) ([]promptcomposer.Tool, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var transport mcp.Transport
	if opts.Endpoint != "" {
		transport = &mcp.StreamableClientTransport{
			Endpoint:   opts.Endpoint,
			HTTPClient: &http.Client{Timeout: timeout},
		}
	} else {
		cmd := exec.CommandContext(ctx, sc.Command, sc.Args...)
		cmd.Env = os.Environ()
		for k, v := range sc.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		transport = &mcp.CommandTransport{Command: cmd}
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "prompt-composer",
		Version: promptcomposer.Version,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, &promptcomposer.Error{
			Kind: promptcomposer.KindConnection,
			Msg:  fmt.Sprintf("connect to %s", name),
			Err:  err,
		}
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, &promptcomposer.Error{
			Kind: promptcomposer.KindDiscovery,
			Msg:  fmt.Sprintf("list tools on %s", name),
			Err:  err,
		}
	}

	tools := make([]promptcomposer.Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		tool := promptcomposer.Tool{
			Name:        name + "." + t.Name,
			Description: t.Description,
			Server:      name,
		}
		if t.InputSchema != nil {
			schema, err := json.Marshal(t.InputSchema)
			if err != nil {
				logging.Warnf("tool %s schema not serializable: %v", tool.Name, err)
			} else {
				tool.Schema = schema
			}
		}
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	logging.Infof("discovered %d tools on %s", len(tools), name)
	return tools, nil
}
