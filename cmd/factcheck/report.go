package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-factorial/conformance"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	wrapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// column widths: input, reference, compiled, status
var cols = [...]int{22, 22, 22, 10}

// renderReport formats a report as a table. Unstyled output is plain text
// suitable for pipes and diffs.
func renderReport(rep *conformance.Report, styled bool) string {
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	title := fmt.Sprintf("%s (%s)  overflow at %d", rep.Export, rep.Width, rep.OverflowPoint)
	b.WriteString(render(headerStyle, title))
	b.WriteString("\n")

	b.WriteString(row([]string{"input", "reference", "compiled", ""}))
	b.WriteString("\n")

	for _, c := range rep.Cases {
		status, style := "ok", okStyle
		switch {
		case !c.OK():
			status, style = "MISMATCH", failStyle
		case rep.Wrapped(c.Input):
			status, style = "wrapped", wrapStyle
		}
		line := row([]string{
			fmt.Sprint(c.Input),
			fmt.Sprint(c.Want),
			fmt.Sprint(c.Got),
			status,
		})
		b.WriteString(render(style, line))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d cases, %d mismatches, %d non-monotonic, %s",
		len(rep.Cases), len(rep.Mismatches()), len(rep.NonMonotonic()), rep.Elapsed.Round(time.Microsecond))
	if rep.Passed() {
		b.WriteString(render(dimStyle, "PASS "+summary))
	} else {
		b.WriteString(render(failStyle, "FAIL "+summary))
	}
	b.WriteString("\n\n")
	return b.String()
}

func row(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i == len(fields)-1 {
			b.WriteString(f)
			break
		}
		fmt.Fprintf(&b, "%*s  ", cols[i], f)
	}
	return strings.TrimRight(b.String(), " ")
}
