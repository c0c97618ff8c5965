package app

import (
	"fmt"

	"github.com/blackwell-systems/docqa/internal/logging"
	"github.com/blackwell-systems/docqa/internal/settings"
	"github.com/blackwell-systems/docqa/internal/tui"
	"github.com/blackwell-systems/docqa/internal/unified"
	tea "github.com/charmbracelet/bubbletea"
)

// themeStore opens the persisted preferences.
func themeStore() *settings.ThemeStore {
	return settings.NewThemeStore(settings.NewFileKV(cfg.SettingsPath()), tui.AmbientDark)
}

// runTUI launches the interactive interface and blocks until the user quits.
func runTUI() error {
	log := logging.New("tui")
	log.Info("starting", "backend", client.BaseURL())

	m := unified.New(newSession(log), themeStore(), log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
