package tui

import (
	"github.com/blackwell-systems/docqa/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Adaptive colors follow the active theme (see ApplyTheme).
var (
	// ColorBrand for titles and the answer heading
	ColorBrand = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

	// ColorPurple for the upload feature
	ColorPurple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

	// ColorGreen for success
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorRed for failures
	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}

	// ColorOrange for the no-book notice
	ColorOrange = lipgloss.AdaptiveColor{Light: "#D75F00", Dark: "#FB923C"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for highlights
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}
)

// Reusable styles
var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorBrand).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)

	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleBorder is for the outer frame of every screen
	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	// StyleCard is a left-accented block for banners and answers
	StyleCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			PaddingLeft(1)

	// StyleSourceMeta is the "Page N • Chunk #M" line of an excerpt
	StyleSourceMeta = lipgloss.NewStyle().Foreground(ColorPurple)
)

// ApplyTheme makes adaptive colors render for a dark (true) or light background.
func ApplyTheme(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}

// AmbientDark reports the terminal's background. ok is false when stdout
// is not a terminal and the query would be meaningless.
func AmbientDark() (dark bool, ok bool) {
	if !util.IsTTY() {
		return false, false
	}
	return lipgloss.HasDarkBackground(), true
}
