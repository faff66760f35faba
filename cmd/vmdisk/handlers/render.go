package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShaneCastle/vmdisk/internal/provision"
)

var (
	summaryColorGreen = lipgloss.Color("#22c55e")
	summaryColorBlue  = lipgloss.Color("#3b82f6")
	summaryColorDim   = lipgloss.Color("#6b7280")
	summaryColorWhite = lipgloss.Color("#f9fafb")
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(summaryColorWhite)

	summarySectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(summaryColorBlue)

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(summaryColorDim)

	summaryGreenStyle = lipgloss.NewStyle().
				Foreground(summaryColorGreen)
)

// renderSummary produces a lipgloss-styled summary of a provisioning run.
func renderSummary(result *provision.Result) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("  vmdisk provision: %s", result.ServerName)))
	b.WriteString("\n")
	b.WriteString(summaryDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(summarySectionStyle.Render("  VM"))
	b.WriteString("\n")
	if result.Created {
		b.WriteString(summaryGreenStyle.Render("    created"))
	} else {
		b.WriteString(summaryDimStyle.Render("    extended"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    address:  %s\n", result.ServerIP))
	if result.Location != "" {
		b.WriteString(fmt.Sprintf("    location: %s\n", result.Location))
	}
	if result.Created {
		b.WriteString(fmt.Sprintf("    image:    %s (%s)\n", result.Image.Family, result.Image.ID))
	}

	b.WriteString("\n")
	b.WriteString(summarySectionStyle.Render("  Disks"))
	b.WriteString("\n")
	for i, name := range result.Volumes {
		b.WriteString(fmt.Sprintf("    slot %-3d %s\n", result.Slots[i], name))
	}
	if len(result.Format.Initialized) > 0 {
		b.WriteString(summaryGreenStyle.Render(fmt.Sprintf("    formatted %d raw disk(s)", len(result.Format.Initialized))))
	} else {
		b.WriteString(summaryDimStyle.Render("    no raw disks needed formatting"))
	}
	b.WriteString("\n")

	return b.String()
}
