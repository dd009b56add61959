package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/introspect"
)

// discoverCmd creates the discover command.
func discoverCmd() *cobra.Command {
	var (
		configPath string
		endpoint   string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "discover <server>",
		Short: "Launch a provider and list its real tools",
		Long: `Connect to one configured provider and ask it for its actual tool list,
instead of inferring it from patterns. Stdio providers are launched from
their configured command; --endpoint dials a streamable HTTP provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var cfg promptcomposer.Config
			if configPath != "" {
				if err := readJSONFile(configPath, &cfg); err != nil {
					return err
				}
			}
			sc, ok := cfg.Servers[name]
			if !ok && endpoint == "" {
				return fmt.Errorf("server %s not found in configuration", name)
			}

			tools, err := introspect.Tools(context.Background(), name, sc, introspect.Options{
				Timeout:  timeout,
				Endpoint: endpoint,
			})
			if err != nil {
				return err
			}
			return printJSON(tools)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mcpServers configuration file (JSON)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "streamable HTTP endpoint instead of launching the command")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "discovery timeout")

	return cmd
}
