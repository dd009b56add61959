package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xcud/prompt-composer/internal/server"
)

// serveCmd creates the serve command.
func serveCmd() *cobra.Command {
	var (
		addr  string
		watch bool
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composition API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nShutting down...")
				cancel()
			}()

			composer := newComposer()
			defer composer.Close()

			return server.Run(ctx, composer, server.Options{
				Addr:  addr,
				Quiet: quiet,
				Watch: watch,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload guidance templates on edit")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress startup messages")

	return cmd
}
