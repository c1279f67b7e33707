package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	handleColumn = 20
)

// Header is the banner printed above the form and the results.
func Header() string {
	return titleStyle.Render("Field Matcher") + "\n" + ruleStyle.Render(strings.Repeat("=", 40)) + "\n"
}

// RenderResults formats ranked matches as a numbered list with 3-decimal scores.
func RenderResults(results []match.Result) string {
	var b strings.Builder

	b.WriteString(ruleStyle.Render(strings.Repeat("=", 40)))
	b.WriteString("\nResults:\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	for i, r := range results {
		f := r.Field()
		handle := fmt.Sprintf("%-*s", handleColumn, f.Handle())
		fmt.Fprintf(&b, "  %d. %s %s\n",
			i+1, handleStyle.Render(handle), scoreStyle.Render(fmt.Sprintf("(score: %.3f)", r.Score())))
		b.WriteString(detailStyle.Render(fmt.Sprintf("     Label: %s", f.Label())))
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(fmt.Sprintf("     Type: %s", f.Type())))
		b.WriteString("\n")
		if d, ok := f.Description(); ok {
			b.WriteString(detailStyle.Render(fmt.Sprintf("     Description: %s", d)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderError formats an error line in the CLI's error style.
func RenderError(msg string) string {
	return errorStyle.Render(msg)
}
