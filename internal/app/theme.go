package app

import (
	"fmt"

	"github.com/blackwell-systems/docqa/internal/settings"
	"github.com/spf13/cobra"
)

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [show|dark|light|toggle]",
		Short: "Show or change the interface theme",
		Long: `Show or change the light/dark theme used by the interactive interface.
Without a saved choice the terminal's background decides.

Examples:
  docqa theme            Show the active theme and where it comes from
  docqa theme dark       Always use the dark theme
  docqa theme toggle     Switch between light and dark`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"show", "dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "show"
			if len(args) == 1 {
				action = args[0]
			}
			return runTheme(themeStore(), action)
		},
	}
}

func runTheme(store *settings.ThemeStore, action string) error {
	var (
		dark bool
		err  error
	)
	switch action {
	case "show":
		d, src := store.LoadWithSource()
		fmt.Printf("%s (%s)\n", themeName(d), src)
		return nil
	case "dark", "light":
		dark = action == "dark"
		err = store.Save(dark)
	case "toggle":
		dark, err = store.Toggle()
	default:
		return fmt.Errorf("unknown theme action %q (want show, dark, light or toggle)", action)
	}
	if err != nil {
		return err
	}
	ok("Theme set to %s", themeName(dark))
	return nil
}
