package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/blackwell-systems/docqa/internal/backend"
	"github.com/blackwell-systems/docqa/internal/config"
	"github.com/blackwell-systems/docqa/internal/logging"
	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/util"
	"github.com/blackwell-systems/docqa/internal/workflow"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	client   *backend.Client
	closeLog func() error

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagBackend       string
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your PDF documents",
	Long: `docqa uploads PDF documents to a question-answering backend and asks
natural-language questions about them. Answers come with the source
excerpts they were drawn from.

Run 'docqa' with no arguments to launch the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			return runTUI()
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	if closeLog != nil {
		_ = closeLog()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/docqa/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Backend base URL (overrides backend.base_url)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			// config init must work even when the existing file is broken.
			if cmd.Name() != "init" || cmd.Parent() == nil || cmd.Parent().Name() != "config" {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = config.Default()
		}

		if flagBackend != "" {
			cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(flagBackend), "/")
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("--backend: %w", err)
			}
		}

		closeLog, err = logging.Init(cfg.LogPath(), cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			warn("Logging disabled: %v", err)
			logging.Discard()
		}

		client = backend.New(cfg.Backend.BaseURL, logging.New("backend"))
		return nil
	}

	// Register sub-commands.
	rootCmd.AddCommand(
		newStatusCmd(),
		newUploadCmd(),
		newAskCmd(),
		newHealthCmd(),
		newClearCmd(),
		newThemeCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// newSession wires the workflow controllers to the configured backend.
func newSession(log *slog.Logger) *workflow.Session {
	return workflow.NewSession(client, workflow.Options{
		Timeout:       cfg.Backend.Timeout,
		UploadTimeout: cfg.Backend.UploadTimeout,
		Logger:        log,
	})
}

// requestContext bounds one CLI request. A zero timeout means no deadline.
func requestContext(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
