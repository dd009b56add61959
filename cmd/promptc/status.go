package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statusCmd creates the status command.
func statusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report composer availability and the template inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := newComposer().Status()
			if jsonOut {
				return printJSON(st)
			}

			if st.Available {
				fmt.Println("available: yes")
			} else {
				fmt.Println("available: no (guidance library missing or incomplete)")
			}
			fmt.Printf("source:    %s\n", st.Source)
			fmt.Printf("version:   %s\n", st.Version)
			fmt.Printf("domains:   %s\n", joinOrNone(st.Domains))
			fmt.Printf("behaviors: %s\n", joinOrNone(st.Behaviors))
			fmt.Printf("tools:     %s\n", joinOrNone(st.Tools))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
