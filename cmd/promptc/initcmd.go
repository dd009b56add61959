package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcud/prompt-composer/internal/defaults"
)

// initCmd creates the init command.
func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a prompts directory with the starter templates",
		Long: `Copy the embedded starter guidance library and match rules into dir
(default: prompts). Existing files are kept unless --force is set, so a
customized library survives re-running init.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "prompts"
			if len(args) == 1 {
				dir = args[0]
			}

			if err := defaults.Scaffold(dir, force); err != nil {
				return err
			}

			files, err := defaults.ListDefaults()
			if err != nil {
				return err
			}
			fmt.Printf("Initialized %s with %d files\n", dir, len(files))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}
