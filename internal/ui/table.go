package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column. A zero Width sizes the column to its
// widest cell.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a new table.
func NewTable(cols ...Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, Row(cells))
}

// Render returns the table as a string. Cell widths are measured with
// lipgloss so styled cells line up.
func (t *Table) Render() string {
	widths := t.widths()

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	var sb strings.Builder
	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = headerStyle.Render(fit(col.Title, widths[i]))
	}
	sb.WriteString(strings.Join(cells, "  ") + "\n")

	for i := range t.Columns {
		cells[i] = StyleMeta.Render(strings.Repeat("─", widths[i]))
	}
	sb.WriteString(strings.Join(cells, "  ") + "\n")

	for _, row := range t.Rows {
		for i := range t.Columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = fit(v, widths[i])
		}
		sb.WriteString(strings.Join(cells, "  ") + "\n")
	}
	return sb.String()
}

func (t *Table) widths() []int {
	w := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		if col.Width > 0 {
			w[i] = col.Width
			continue
		}
		w[i] = lipgloss.Width(col.Title)
		for _, row := range t.Rows {
			if i < len(row) {
				w[i] = max(w[i], lipgloss.Width(row[i]))
			}
		}
	}
	return w
}

// fit pads s to width. Plain text longer than width is cut; styled text is
// left alone.
func fit(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		if n == len(s) && n > width {
			return s[:width]
		}
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(strings.TrimRight(sb.String(), "\n"))
}
