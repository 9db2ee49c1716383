package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderChannelLegend renders "ch 1 ■ ch 2 ■ ..." for the channels seen so
// far. Channels are 0-based, labels are 1-based.
func RenderChannelLegend(colors [16][3]uint8, seen [16]bool) string {
	var parts []string
	for ch := range colors {
		if !seen[ch] {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", RenderPad(colors[ch]), ch+1))
	}
	if len(parts) == 0 {
		return ""
	}
	return "channels " + strings.Join(parts, "  ")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
