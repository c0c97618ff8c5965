package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/docqa/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every document from the backend",
		Long: `Remove all ingested documents from the backend. This cannot be undone;
uploaded PDFs must be uploaded again.

Examples:
  docqa clear          Asks for confirmation
  docqa clear --yes    No prompt (required when not on a terminal)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !util.CanPrompt() {
					return errors.New("refusing to clear without --yes")
				}
				prompt := fmt.Sprintf("Remove all documents from %s?", client.BaseURL())
				if !util.Confirm(os.Stdin, cmd.OutOrStdout(), prompt) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Cancelled."))
					return nil
				}
			}

			ctx, cancel := requestContext(cmd, cfg.Backend.Timeout)
			defer cancel()

			msg, err := client.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clearing documents: %w", err)
			}
			if msg == "" {
				msg = "All documents cleared"
			}
			ok("%s", msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
