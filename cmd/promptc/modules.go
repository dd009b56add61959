package main

import (
	"fmt"

	"github.com/spf13/cobra"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/prompts"
)

// modulesCmd creates the modules command.
func modulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules [category] [name]",
		Short: "List guidance templates, or print one",
		Long: `List the guidance templates the composer can draw from.

With no arguments, lists every category. With a category (domains, behaviors,
tools), lists its templates. With a category and name, prints the template.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			composer := newComposer()

			if len(args) == 2 {
				content, err := composer.Module(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Print(content)
				return nil
			}

			categories := []string{prompts.CategoryDomains, prompts.CategoryBehaviors, prompts.CategoryTools}
			if len(args) == 1 {
				categories = []string{args[0]}
			}

			for _, category := range categories {
				names, err := listCategory(composer, category)
				if err != nil {
					return err
				}
				fmt.Printf("%s:\n", category)
				if len(names) == 0 {
					fmt.Println("  (none)")
					continue
				}
				for _, name := range names {
					fmt.Printf("  %s\n", name)
				}
			}
			return nil
		},
	}
	return cmd
}

func listCategory(c *promptcomposer.Composer, category string) ([]string, error) {
	switch category {
	case prompts.CategoryDomains:
		return c.ListDomains()
	case prompts.CategoryBehaviors:
		return c.ListBehaviors()
	case prompts.CategoryTools:
		return c.ListTools()
	default:
		return nil, fmt.Errorf("unknown category %q (expected domains, behaviors, or tools)", category)
	}
}
