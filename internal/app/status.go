package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type statusOutput struct {
	Backend     string              `json:"backend"`
	Book        *backend.BookStatus `json:"book_status"`
	Health      *backend.Health     `json:"health,omitempty"`
	HealthError string              `json:"health_error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the backend has loaded",
		Long: `Show the backend's book status: whether a default book is loaded and how
many chunks are available to answer from. Backend health is fetched
alongside and reported when available.

Examples:
  docqa status            Human-readable summary
  docqa status --json     Machine-readable JSON output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd, cfg.Backend.Timeout)
			defer cancel()

			result, err := collectStatus(ctx, client)
			if err != nil {
				return err
			}
			if jsonOut {
				return printStatusJSON(cmd.OutOrStdout(), result)
			}
			printStatusText(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// statusSource is the part of the backend the status command reads.
type statusSource interface {
	BaseURL() string
	BookStatus(ctx context.Context) (*backend.BookStatus, error)
	Health(ctx context.Context) (*backend.Health, error)
}

// collectStatus fetches book status and health concurrently. Only a book
// status failure is an error; health is informational.
func collectStatus(ctx context.Context, src statusSource) (statusOutput, error) {
	result := statusOutput{Backend: src.BaseURL()}

	var health *backend.Health
	var healthErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := src.BookStatus(gctx)
		if err != nil {
			return fmt.Errorf("fetching book status: %w", err)
		}
		result.Book = st
		return nil
	})
	g.Go(func() error {
		health, healthErr = src.Health(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return result, err
	}

	result.Health = health
	if healthErr != nil {
		result.HealthError = healthErr.Error()
	}
	return result, nil
}

func printStatusText(w io.Writer, result statusOutput) {
	fmt.Fprintln(w, color.CyanString("Backend: %s", result.Backend))

	if result.Health != nil {
		fmt.Fprintf(w, "  %s %s, model %s\n", color.GreenString("✓"), result.Health.Status, result.Health.Model)
	} else if result.HealthError != "" {
		fmt.Fprintf(w, "  %s health unavailable: %s\n", color.YellowString("!"), result.HealthError)
	}

	st := result.Book
	switch {
	case st.HasDefaultBook:
		name := st.DefaultBookName
		if name == "" {
			name = "default book"
		}
		fmt.Fprintf(w, "  %s Default Book Loaded: %s\n", color.GreenString("✓"), name)
	case !st.DocumentsLoaded:
		fmt.Fprintf(w, "  %s No Book Loaded\n", color.YellowString("!"))
	}
	fmt.Fprintf(w, "  %d chunks available\n", st.TotalChunks)

	if st.Empty() {
		fmt.Fprintf(w, "\n%s Upload a PDF to get started: docqa upload FILE\n", color.CyanString("hint:"))
	}
}

func printStatusJSON(w io.Writer, result statusOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
