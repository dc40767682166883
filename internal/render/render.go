package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/stats"
)

const (
	colorReset  = "\033[0m"
	colorHead   = "\033[1;34m" // bold blue
	colorItem   = "\033[1m"
	colorNum    = "\033[32m"
	colorDim    = "\033[2m"
	colorWarn   = "\033[1;33m" // bold yellow for wasted food
	placeholder = "—"
)

type Options struct {
	Color  bool      // emit ANSI colours
	Width  int       // wrap width (0 = no wrap)
	Expand bool      // list quantity breakdowns under expandable rows
	Now    time.Time // reference for "last roll"; zero means time.Now()
}

// Column widths of the drops table.
const (
	colItem   = 18
	colCount  = 7
	colChance = 9
	colAvg    = 8
)

// FormatChance renders a drop chance as "12.500%".
func FormatChance(st *stats.State, id string) string {
	if pct, ok := st.DropChance(id); ok {
		return fmt.Sprintf("%.3f%%", pct)
	}
	return placeholder
}

// FormatAvgQty renders the mean quantity with two decimals.
func FormatAvgQty(st *stats.State, id string) string {
	if avg, ok := st.AvgQty(id); ok {
		return fmt.Sprintf("%.2f", avg)
	}
	return placeholder
}

// FormatAvgRoll renders the mean seconds between rolls, e.g. "42.0s".
func FormatAvgRoll(st *stats.State) string {
	if avg, ok := st.AvgRollTime(); ok {
		return fmt.Sprintf("%.1fs", avg)
	}
	return placeholder
}

// FormatRollsPerHour renders the projected hourly roll rate.
func FormatRollsPerHour(st *stats.State) string {
	if rph, ok := st.RollsPerHour(); ok {
		return fmt.Sprintf("%.1f", rph)
	}
	return placeholder
}

// FormatLastRoll renders the last roll relative to now.
func FormatLastRoll(st *stats.State, now time.Time) string {
	if st.LastRollTime == nil {
		return "never"
	}
	return humanize.RelTime(time.UnixMilli(*st.LastRollTime), now, "ago", "from now")
}

// Cell pads or truncates s to exactly width columns.
func Cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// NumCell right-aligns s within width columns.
func NumCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillLeft(s, width)
}

// Header renders the counters shown above the drops table.
func Header(st *stats.State, now time.Time) []string {
	return []string{
		fmt.Sprintf("Rolls: %s   Feed: %s   Food wasted: %s",
			humanize.Comma(int64(st.TotalRolls)), st.FeedProgress(), humanize.Comma(int64(st.FoodWasted))),
		fmt.Sprintf("Avg roll: %s   Rolls/hr: %s   Last roll: %s",
			FormatAvgRoll(st), FormatRollsPerHour(st), FormatLastRoll(st, now)),
	}
}

// TableHeader returns the column titles of the drops table.
func TableHeader() string {
	return "  " + Cell("Item", colItem) + " " + NumCell("Count", colCount) + " " +
		NumCell("Chance", colChance) + " " + NumCell("Avg qty", colAvg)
}

// Row renders one drops table row. caret is "▸", "▾" or "".
func Row(st *stats.State, def catalog.Drop, caret string) string {
	var count int
	if d := st.Drops[def.ID]; d != nil {
		count = d.Count
	}
	if caret == "" {
		caret = " "
	}
	return caret + " " + Cell(def.Name, colItem) + " " +
		NumCell(humanize.Comma(int64(count)), colCount) + " " +
		NumCell(FormatChance(st, def.ID), colChance) + " " +
		NumCell(FormatAvgQty(st, def.ID), colAvg)
}

// Breakdown renders the quantity breakdown lines for def.
func Breakdown(st *stats.State, def catalog.Drop) []string {
	rows, ok := st.QtyBreakdown(def)
	if !ok {
		return []string{"Range too large to display."}
	}
	if len(rows) == 0 {
		return []string{"No quantity data yet."}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, fmt.Sprintf("Qty %-4d Count %-6s %5.1f%%", r.Qty, humanize.Comma(int64(r.Count)), r.Percent))
	}
	return out
}

// Stats renders the whole state as a text report.
func Stats(st *stats.State, cat *catalog.Catalog, opts Options) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	paint := func(color, s string) string {
		if !opts.Color {
			return s
		}
		return color + s + colorReset
	}

	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	for _, h := range Header(st, now) {
		writeLine(paint(colorHead, h))
	}
	if st.FoodWasted > 0 {
		writeLine(paint(colorWarn, fmt.Sprintf("%d treats fed past the %d needed per roll", st.FoodWasted, stats.FeedThreshold)))
	}
	writeLine("")
	writeLine(paint(colorDim, TableHeader()))

	for _, def := range cat.Drops() {
		expandable := st.Expandable(def)
		caret := ""
		if expandable {
			caret = "▸"
			if opts.Expand {
				caret = "▾"
			}
		}
		writeLine(paint(colorItem, Row(st, def, caret)))
		if label := st.RangeLabel(def.ID); label != "" {
			writeLine("  " + paint(colorDim, label))
		}
		if expandable && opts.Expand {
			for _, l := range Breakdown(st, def) {
				writeLine("    " + paint(colorNum, l))
			}
		}
	}
	return b.String()
}

// Summary renders a compact plain-text report for pasting elsewhere.
func Summary(st *stats.State, cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolls: %d | Food wasted: %d | Avg roll: %s | Rolls/hr: %s\n",
		st.TotalRolls, st.FoodWasted, FormatAvgRoll(st), FormatRollsPerHour(st))
	for _, def := range cat.Drops() {
		d := st.Drops[def.ID]
		if d == nil || d.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %d (%s, avg %s)\n", def.Name, d.Count, FormatChance(st, def.ID), FormatAvgQty(st, def.ID))
	}
	return b.String()
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}
