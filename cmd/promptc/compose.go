package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	promptcomposer "github.com/xcud/prompt-composer"
)

// composeCmd creates the compose command.
func composeCmd() *cobra.Command {
	var (
		configPath    string
		sessionPath   string
		domainHints   []string
		behaviorHints []string
		complexity    string
		cached        bool
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "compose [prompt]",
		Short: "Compose a system prompt for a user request",
		Long: `Compose a system prompt from an mcpServers configuration and a user prompt.

The composed prompt is printed to stdout; diagnostics go to stderr. Use
--json for the full response including applied modules and the complexity
assessment.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := promptcomposer.Request{
				UserPrompt: strings.Join(args, " "),
				Complexity: promptcomposer.Complexity(complexity),
			}
			if cmd.Flags().Changed("domain") {
				req.DomainHints = domainHints
			}
			if cmd.Flags().Changed("behavior") {
				req.BehaviorHints = behaviorHints
			}

			if configPath != "" {
				if err := readJSONFile(configPath, &req.Config); err != nil {
					return err
				}
			}
			if sessionPath != "" {
				req.SessionState = &promptcomposer.SessionState{}
				if err := readJSONFile(sessionPath, req.SessionState); err != nil {
					return err
				}
			}

			composer := newComposer()
			var resp *promptcomposer.Response
			var err error
			if cached {
				resp, err = composer.ComposeCached(&req)
			} else {
				resp, err = composer.Compose(&req)
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(resp)
			}
			fmt.Println(resp.SystemPrompt)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mcpServers configuration file (JSON)")
	cmd.Flags().StringVarP(&sessionPath, "session", "s", "", "session state file (JSON)")
	cmd.Flags().StringSliceVar(&domainHints, "domain", nil, "domain hints, replacing auto-detection")
	cmd.Flags().StringSliceVar(&behaviorHints, "behavior", nil, "behavior hints, replacing auto-detection")
	cmd.Flags().StringVar(&complexity, "complexity", "", "override the complexity assessment (simple|complex)")
	cmd.Flags().BoolVar(&cached, "cached", false, "compose from cached capabilities only")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full response as JSON")

	return cmd
}

// readJSONFile reads path and unmarshals it into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &promptcomposer.Error{
			Kind: promptcomposer.KindSerialization,
			Msg:  "parse " + path,
			Err:  err,
		}
	}
	return nil
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
