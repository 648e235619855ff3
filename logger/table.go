package logger

import (
	"fmt"
	"io"
	"strings"
)

type Table struct {
	headers     []string
	rows        [][]string
	columnWidth []int
	out         io.Writer
}

func NewTable(headers []string, out io.Writer) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	return &Table{
		headers:     headers,
		columnWidth: widths,
		out:         out,
	}
}

func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	} else if len(cells) < len(t.headers) {
		padded := make([]string, len(t.headers))
		copy(padded, cells)
		cells = padded
	}

	for i, cell := range cells {
		if len(cell) > t.columnWidth[i] {
			t.columnWidth[i] = len(cell)
		}
	}

	t.rows = append(t.rows, cells)
}

func (t *Table) Print() {
	var sb strings.Builder

	rowFormat := "│"
	for _, width := range t.columnWidth {
		rowFormat += " %-" + fmt.Sprintf("%d", width) + "s │"
	}

	t.writeRule(&sb, "┌", "┬", "┐")
	sb.WriteString(fmt.Sprintf(rowFormat, toAnySlice(t.headers)...))
	sb.WriteString("\n")
	t.writeRule(&sb, "├", "┼", "┤")

	for _, row := range t.rows {
		sb.WriteString(fmt.Sprintf(rowFormat, toAnySlice(row)...))
		sb.WriteString("\n")
	}
	t.writeRule(&sb, "└", "┴", "┘")

	fmt.Fprint(t.out, sb.String())
}

func (t *Table) writeRule(sb *strings.Builder, left, mid, right string) {
	sb.WriteString(left)
	for i, width := range t.columnWidth {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(t.columnWidth)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}

func toAnySlice(cells []string) []interface{} {
	args := make([]interface{}, len(cells))
	for i, cell := range cells {
		args[i] = cell
	}
	return args
}
