package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/droptrack/internal/render"
)

// tableRow is one rendered line of the drops panel. item is the catalog
// index the line belongs to, or -1 for the column header.
type tableRow struct {
	text  string
	item  int
	style lipgloss.Style
}

// tableRows flattens the drops table, including range labels and any
// expanded breakdowns, into display lines.
func (m model) tableRows() []tableRow {
	rows := []tableRow{{text: render.TableHeader(), item: -1, style: styleTitle}}
	for i, def := range m.drops {
		caret := ""
		if m.state.Expandable(def) {
			caret = "▸"
			if m.expanded[def.ID] {
				caret = "▾"
			}
		}
		style := styleRowNormal
		if i == m.cursor {
			style = styleRowSelected
		}
		rows = append(rows, tableRow{text: render.Row(m.state, def, caret), item: i, style: style})

		if label := m.state.RangeLabel(def.ID); label != "" {
			rows = append(rows, tableRow{text: "  " + label, item: i, style: styleRowDetail})
		}
		if caret == "▾" {
			for _, l := range render.Breakdown(m.state, def) {
				rows = append(rows, tableRow{text: "    " + l, item: i, style: styleBreakdown})
			}
		}
	}
	return rows
}

// renderList renders the drops panel with scrolling.
func (m model) renderList(width, height int) string {
	rows := m.tableRows()

	var lines []string
	for i := m.listOffset; i < len(rows) && len(lines) < height; i++ {
		text := rows[i].text
		if runewidth.StringWidth(text) > width {
			text = runewidth.Truncate(text, width, "")
		}
		lines = append(lines, rows[i].style.Render(text))
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// firstRowOf returns the display line index of item's main row.
func firstRowOf(rows []tableRow, item int) int {
	for i, r := range rows {
		if r.item == item {
			return i
		}
	}
	return 0
}

// adjustListScroll keeps the cursor row visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	if listHeight < 1 {
		listHeight = 1
	}
	line := firstRowOf(m.tableRows(), m.cursor)
	if line < m.listOffset {
		m.listOffset = line
	}
	if line >= m.listOffset+listHeight {
		m.listOffset = line - listHeight + 1
	}
}
