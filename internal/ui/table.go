package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Right bool // right-align, for amounts
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
	Footer  Row // optional totals row, drawn below a divider
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string. Cells are padded to exact
// column widths before styling; lipgloss Width wraps long content.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)

	t.writeRow(&sb, t.headers(), func(int) lipgloss.Style { return headerStyle })
	t.writeDivider(&sb)

	for _, row := range t.Rows {
		t.writeRow(&sb, row, func(int) lipgloss.Style { return cellStyle })
	}

	if len(t.Footer) > 0 {
		t.writeDivider(&sb)
		t.writeRow(&sb, t.Footer, func(int) lipgloss.Style { return StyleValue })
	}

	return sb.String()
}

func (t *Table) headers() Row {
	out := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = col.Title
	}
	return out
}

func (t *Table) writeRow(sb *strings.Builder, row Row, style func(int) lipgloss.Style) {
	cells := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		val := ""
		if j < len(row) {
			val = row[j]
		}
		cells[j] = style(j).Render(pad(val, col.Width, col.Right))
	}
	sb.WriteString(strings.Join(cells, " "))
	sb.WriteString("\n")
}

func (t *Table) writeDivider(sb *strings.Builder) {
	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		parts[i] = StyleMeta.Render(strings.Repeat("-", col.Width))
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n")
}

// pad fits s into exactly width chars, truncating if needed.
func pad(s string, width int, right bool) string {
	if len(s) >= width {
		return s[:width]
	}
	fill := strings.Repeat(" ", width-len(s))
	if right {
		return fill + s
	}
	return s + fill
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
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
