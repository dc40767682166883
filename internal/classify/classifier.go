// Package classify turns reconstructed chat lines into tracker events.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/chatlog"
)

const (
	// FeedLine is the chat message printed each time the pet eats a treat.
	FeedLine = "The dog happily eats the treat."

	// noiseGlyph is a snowflake the OCR reader reports for chat decorations.
	noiseGlyph = "❆"
)

// findRe matches "You find <qty> <item>." with the lead-in optional.
var findRe = regexp.MustCompile(`(?i)^(?:You find\s+)?(\d+)\s+(.+?)\.\s*$`)

// Classifier maps chat lines to events using a drop catalog.
type Classifier struct {
	catalog  *catalog.Catalog
	feedLine string
	find     *regexp.Regexp
}

// New creates a Classifier resolving item names against cat.
func New(cat *catalog.Catalog) *Classifier {
	return &Classifier{
		catalog:  cat,
		feedLine: FeedLine,
		find:     findRe,
	}
}

// Classify inspects one line. Unknown items, noise and anything else that
// is not a feed or a drop come back as None; nothing here is an error.
func (c *Classifier) Classify(line string) Event {
	clean := chatlog.StripTimestamps(line)
	if clean == "" || clean == noiseGlyph {
		return None()
	}

	if strings.Contains(clean, c.feedLine) {
		return Feed()
	}

	m := c.find.FindStringSubmatch(clean)
	if m == nil {
		return None()
	}

	qty, err := strconv.Atoi(m[1])
	if err != nil {
		// A digit run too long for int is an OCR misread.
		return None()
	}

	id, ok := c.catalog.Lookup(m[2])
	if !ok {
		return None()
	}
	return Drop(id, qty)
}
