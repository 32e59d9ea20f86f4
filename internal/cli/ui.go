package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/collage/pkg/audio"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleAudible = lipgloss.NewStyle().Foreground(colorGreen)
	styleMuted   = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// paneColors tints panes by slot in the layout map.
var paneColors = []lipgloss.Color{
	colorCyan, colorGreen, colorYellow, colorBlue, colorRed,
	lipgloss.Color("141"), lipgloss.Color("209"), lipgloss.Color("80"), lipgloss.Color("186"),
}

func paneStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(paneColors[i%len(paneColors)])
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconAudible = "♪"
	iconSilent  = "·"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints short facts on a single dim line.
func printStats(parts ...string) {
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

// rectTable renders layout rectangles as a table.
func rectTable(rects []layout.Rect) string {
	rows := make([][]string, len(rects))
	for i, r := range rects {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			formatCoord(r.X), formatCoord(r.Y),
			formatCoord(r.Width), formatCoord(r.Height),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "X", "Y", "Width", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return paneStyle(row)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
		}).
		Render()
}

// sourceTable renders the session's sources with their audio state. cursor
// marks a row; pass -1 for none.
func sourceTable(sources []*media.Source, cfg audio.Config, cursor int) string {
	rows := make([][]string, len(sources))
	for i, src := range sources {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		sound := iconSilent
		if cfg.IsAudible(src.ID) {
			sound = iconAudible
		}
		state := "-"
		if src.Handle != nil {
			state = src.Handle.ReadyState().String()
		}
		rows[i] = []string{mark + strconv.Itoa(i+1), src.DisplayName, humanize.Bytes(uint64(max(src.ByteSize, 0))), sound, state}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Source", "Size", "Audio", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if row == cursor {
				base = base.Bold(true)
			}
			switch col {
			case 0:
				return base.Inherit(paneStyle(row))
			case 3:
				if row < len(sources) && cfg.IsAudible(sources[row].ID) {
					return base.Inherit(styleAudible)
				}
				return base.Inherit(styleMuted)
			case 2, 4:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
