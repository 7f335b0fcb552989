package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	// Section titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle)

	// Loading / hint text
	hintStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	// Form card
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 3)

	// Input labels
	labelStyle        = lipgloss.NewStyle().Foreground(colorSubtext1)
	labelFocusedStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	// Buttons and links
	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface1).
			Padding(0, 3)

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(colorCrust).
				Background(colorAccent).
				Bold(true).
				Padding(0, 3)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0).
				Background(colorSurface0).
				Padding(0, 3)

	linkStyle        = lipgloss.NewStyle().Foreground(colorSapphire)
	linkFocusedStyle = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true).Underline(true)

	// Inline error banner
	errorBannerStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorError).
				PaddingLeft(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	// Task list
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	taskDoneStyle = lipgloss.NewStyle().Foreground(colorOverlay0).Strikethrough(true)
	taskStyle     = lipgloss.NewStyle().Foreground(colorText)

	// Help key styling
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
)

// ---------------------------------------------------------------------------
// Chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName, meta string, width int) string {
	name := headerAppStyle.Render(appName)
	content := name
	if meta != "" {
		content += headerMetaStyle.Render("  " + meta)
	}
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func renderStatus(text string, width int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if width <= 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(width).Render(flat)
}

func renderFooter(bindings []key.Binding, width int) string {
	// Build help text where every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if width <= 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(width).Render(content)
}

// placeWithChrome stacks body between the header and the status/footer rows,
// padding the middle so the footer sits at the bottom of the window.
func placeWithChrome(header, body, statusLine, footer string, width, height int) string {
	if height <= 0 {
		return header + "\n\n" + body + "\n\n" + statusLine + "\n" + footer
	}
	main := header + "\n\n" + body
	contentHeight := height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	placed := lipgloss.Place(width, contentHeight, lipgloss.Left, lipgloss.Top, main)
	return placed + "\n" + statusLine + "\n" + footer
}

func centerIn(content string, width int) string {
	if width <= 0 {
		return content
	}
	return lipgloss.Place(width, lipgloss.Height(content), lipgloss.Center, lipgloss.Top, content)
}
