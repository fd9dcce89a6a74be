package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette, resolved once at startup based on the terminal background.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
	ColorOverlay   lipgloss.Color
)

// initializeColors resolves the palette for the detected terminal
// background and rebuilds the shared styles from it. NewModel calls this
// before anything renders.
func initializeColors() {
	// GLAMOUR_STYLE doubles as the theme override for the whole UI so the
	// chrome and the markdown preview never disagree
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	rebuildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")   // Bright magenta/pink
	ColorSecondary = lipgloss.Color("33")  // Bright cyan/blue
	ColorAccent = lipgloss.Color("214")    // Bright orange/yellow

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")      // Near white
	ColorTextMuted = lipgloss.Color("244") // Light gray
	ColorTextDim = lipgloss.Color("240")   // Medium gray
	ColorBorder = lipgloss.Color("238")
	ColorSurface = lipgloss.Color("236")
	ColorOverlay = lipgloss.Color("234")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")   // Darker magenta for contrast
	ColorSecondary = lipgloss.Color("24")  // Darker cyan
	ColorAccent = lipgloss.Color("130")    // Darker orange

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")      // Near black
	ColorTextMuted = lipgloss.Color("240") // Dark gray
	ColorTextDim = lipgloss.Color("244")   // Medium gray
	ColorBorder = lipgloss.Color("248")
	ColorSurface = lipgloss.Color("254")
	ColorOverlay = lipgloss.Color("253")
}

// Component styles. These capture the palette at build time, so they are
// assigned in rebuildStyles rather than at package load when the palette
// is still empty.
var (
	StyleTitle lipgloss.Style

	StyleText      lipgloss.Style
	StyleTextMuted lipgloss.Style
	StyleTextDim   lipgloss.Style

	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style

	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style

	StyleTabActive   lipgloss.Style
	StyleTabInactive lipgloss.Style

	StyleContentContainer lipgloss.Style

	StyleFormLabel lipgloss.Style
	StyleFormHelp  lipgloss.Style

	StyleLoading  lipgloss.Style
	StyleMetadata lipgloss.Style

	StyleScrollIndicator       lipgloss.Style
	StyleScrollIndicatorActive lipgloss.Style
)

func rebuildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleText = lipgloss.NewStyle().
		Foreground(ColorText)

	StyleTextMuted = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	StyleTextDim = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleUnselected = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true).
		Padding(0, 1)

	StyleWarning = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true).
		Padding(0, 1)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true).
		Padding(0, 1)

	StyleInfo = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Bold(true).
		Padding(0, 1)

	StyleTabActive = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2)

	StyleTabInactive = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Background(ColorSurface).
		Padding(0, 2)

	StyleContentContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2).
		MarginTop(1).
		MarginBottom(1)

	StyleFormLabel = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)

	StyleFormHelp = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Italic(true).
		Padding(0, 3)

	StyleLoading = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Italic(true).
		Padding(0, 1)

	StyleMetadata = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Padding(0, 1)

	StyleScrollIndicator = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Align(lipgloss.Center)
}

// CreateMainHeader renders the top-level page title.
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateSubPageHeader renders a subpage title (back is handled by keybind).
func CreateSubPageHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateTabBar renders the top-level view tabs with the active one
// highlighted.
func CreateTabBar(labels []string, active int) string {
	tabs := make([]string, 0, len(labels))
	for i, label := range labels {
		if i == active {
			tabs = append(tabs, StyleTabActive.Render(label))
		} else {
			tabs = append(tabs, StyleTabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

// CreateContextualHelp renders essential keybinds on the first row and, when
// expanded, the additional rows below. Rows are truncated to the terminal
// width.
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	var lines []string

	firstRowParts := essential
	if len(additional) > 0 && !showExpanded {
		firstRowParts = append(firstRowParts, "Ctrl+g for more")
	}

	essentialText := strings.Join(firstRowParts, " • ")
	if width > 0 && len(essentialText) > width-4 {
		essentialText = essentialText[:width-7] + "..."
	}
	lines = append(lines, essentialText)

	if showExpanded {
		for _, row := range additional {
			if width > 0 && len(row) > width-4 {
				row = row[:width-7] + "..."
			}
			lines = append(lines, row)
		}
	}

	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

// CreateGuaranteedHelp renders help text that stays visible regardless of
// terminal size.
func CreateGuaranteedHelp(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Width(width).
		Align(lipgloss.Left).
		Padding(0, 1)

	if width > 0 && len(helpText) > width-2 {
		helpText = helpText[:width-5] + "..."
	}

	return helpStyle.Render(helpText)
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateOption renders a selectable option with an optional description line.
func CreateOption(label, description string, isSelected bool) []string {
	var style lipgloss.Style
	var prefix string

	if isSelected {
		style = StyleFocused
		prefix = "▶ "
	} else {
		style = StyleUnselected
		prefix = "  "
	}

	lines := []string{style.Render(prefix + label)}

	if description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true).
			Padding(0, 3)
		lines = append(lines, descStyle.Render(description))
	}

	lines = append(lines, "")
	return lines
}

// CreateCheckOption renders a toggleable option with a checkbox, for
// multi-pick lists.
func CreateCheckOption(label, description string, checked, isSelected bool) []string {
	box := "[ ] "
	if checked {
		box = "[x] "
	}
	return CreateOption(box+label, description, isSelected)
}

// CenterModal places modal content in the middle of the screen.
func CenterModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// AddMainPadding indents main content from the terminal edge.
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// CreateScrollIndicators renders the markers above and below a viewport.
func CreateScrollIndicators(canScrollUp, canScrollDown bool, width int) (string, string) {
	var topIndicator string
	if canScrollUp {
		topIndicator = StyleScrollIndicatorActive.Render("...")
	} else {
		topIndicator = StyleScrollIndicator.Render("─────────")
	}

	var bottomIndicator string
	if canScrollDown {
		bottomIndicator = StyleScrollIndicatorActive.Render("...")
	} else {
		bottomIndicator = StyleScrollIndicator.Render("─────────")
	}

	return topIndicator, bottomIndicator
}
