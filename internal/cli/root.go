// Package cli wires configuration, storage and the HTTP server into the
// smartquiz-server command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smartquiz-server",
		Short: "Quiz authoring service backed by AI question generation",
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}
