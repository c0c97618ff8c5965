package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd, cfg.Backend.Timeout)
			defer cancel()

			h, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("backend at %s: %w", client.BaseURL(), err)
			}
			ok("%s is %s", client.BaseURL(), h.Status)
			fmt.Printf("  documents: %d\n", h.DocumentsCount)
			fmt.Printf("  model:     %s\n", h.Model)
			return nil
		},
	}
}
