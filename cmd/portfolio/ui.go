package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7a89"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

// table is a static table rendered with column widths fitted to the cells.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		// Width includes the padding.
		widths[i] += 2
		total += widths[i]
	}

	sep := mutedStyle.Render("|")
	line := func(style lipgloss.Style, cells []string) string {
		parts := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts = append(parts, style.Width(widths[i]).Render(cell))
		}
		return strings.Join(parts, sep)
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteString("\n")
	}
	sb.WriteString(line(headerStyle, t.headers))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.rows {
		sb.WriteString(line(cellStyle, row))
		sb.WriteString("\n")
	}
	return sb.String()
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗"), fmt.Sprintf(format, args...))
}
