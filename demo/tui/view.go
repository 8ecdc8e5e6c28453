package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vidforge watch"))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.Status != nil && m.Status.Total > 0 && m.State != StateComplete {
		b.WriteString(renderProgressBar(m.Status.Completed, m.Status.Total))
		b.WriteString("\n")
		stats := fmt.Sprintf("   %d/%d variants rendered (%.1f%%)", m.Status.Completed, m.Status.Total, m.Status.Progress)
		b.WriteString(dimStyle.Render(stats))
		b.WriteString("\n\n")
	}

	if m.State == StateComplete && m.Results != nil {
		b.WriteString(resultBoxStyle.Render(m.formatResults()))
		b.WriteString("\n\n")
	}

	if m.State == StateIdle {
		b.WriteString(dimStyle.Render("s: submit   q: quit"))
	} else {
		b.WriteString(dimStyle.Render("q: quit"))
	}

	return b.String()
}

// renderProgressBar draws a fixed-width bar filled proportionally
func renderProgressBar(completed, total int) string {
	const width = 40
	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "   " + progressStyle.Render(bar)
}

// formatResults formats the final results for display
func (m Model) formatResults() string {
	var b strings.Builder

	b.WriteString(badgeStyle.Render("result"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Task: %s (%s)\n", m.Results.TaskName, m.Results.TaskID))
	b.WriteString(fmt.Sprintf("Variants: %d total | %d successful | %d failed\n", m.Results.TotalVariants, m.Results.Successful, m.Results.Failed))

	if len(m.Results.Files) > 0 {
		b.WriteString("\nPublished files:\n")
		for _, f := range m.Results.Files {
			b.WriteString(fmt.Sprintf("  %s\n  %s\n", f.VariantID, dimStyle.Render(f.URL)))
		}
	}

	return b.String()
}
