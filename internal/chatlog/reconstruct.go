package chatlog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// timestampRe matches a chat timestamp token anywhere in a line.
	timestampRe = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]`)

	// leadingTimestampRe matches a fragment that opens a new chat line.
	leadingTimestampRe = regexp.MustCompile(`^\s*\[\d{2}:\d{2}:\d{2}\]`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Reconstruct merges the fragments of one poll into logical chat lines.
//
// A fragment starting with a timestamp opens a new line; anything else is a
// continuation of the line being built and is appended verbatim. A leading
// continuation at position 0 belongs to a line whose timestamp has already
// scrolled away, so it is dropped rather than glued onto the next line.
// Reconstruct keeps no state between calls.
func Reconstruct(fragments []Fragment) []string {
	var b strings.Builder

	for i, f := range fragments {
		t := f.Text

		if leadingTimestampRe.MatchString(t) {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(t)
			// OCR usually reads the timestamp glyphs as their own run.
			if !endsWithSpace(t) {
				b.WriteByte(' ')
			}
			continue
		}

		if i == 0 {
			continue
		}
		b.WriteString(t)
	}

	acc := strings.TrimSpace(b.String())
	if acc == "" {
		return nil
	}

	var lines []string
	for _, piece := range strings.Split(acc, "\n") {
		piece = strings.TrimSpace(piece)
		if timestampRe.MatchString(piece) {
			lines = append(lines, piece)
		}
	}
	return lines
}

// Timestamp returns the first timestamp token in line, or "".
func Timestamp(line string) string {
	return timestampRe.FindString(line)
}

// StripTimestamps removes every timestamp token and trims the rest.
func StripTimestamps(line string) string {
	return strings.TrimSpace(timestampRe.ReplaceAllString(line, ""))
}

// Normalize strips timestamps and collapses internal whitespace.
func Normalize(line string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(timestampRe.ReplaceAllString(line, ""), " "))
}

// Key derives the dedup key for a reconstructed line. Lines with equal keys
// are the same real-world chat message seen on different polls.
func Key(line string) string {
	return Timestamp(line) + "|" + Normalize(line)
}

func endsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}
