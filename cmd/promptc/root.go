package main

import (
	"github.com/spf13/cobra"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/internal/logging"
)

// Shared CLI flags (used across multiple command files)
var (
	promptsDir   string
	patternsPath string
	verbose      bool
)

// setupRootCmd configures the root command with all subcommands and flags.
func setupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptc",
		Short: "promptc - system prompt composer",
		Long: `promptc assembles system prompts for tool-using agents.

Point it at an mcpServers configuration and a user prompt and it infers the
available capabilities, picks the guidance that applies, and prints the
composed prompt. Run 'promptc init' to scaffold a prompts directory.`,
		Version: promptcomposer.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				logging.Disable()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&promptsDir, "prompts", "", "guidance library directory (default: nearest prompts directory)")
	rootCmd.PersistentFlags().StringVar(&patternsPath, "patterns", "", "match rules file (default: prompts/server_patterns.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add commands
	rootCmd.AddCommand(composeCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(modulesCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initCmd())

	return rootCmd
}

// newComposer builds a Composer honoring the global flags.
func newComposer() *promptcomposer.Composer {
	return promptcomposer.New(promptcomposer.Options{
		PromptsDir:   promptsDir,
		PatternsPath: patternsPath,
	})
}
