package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
)

func TestClassify(t *testing.T) {
	c := New(catalog.Default())

	tests := []struct {
		line string
		want Event
	}{
		{"[12:00:01] You find 5 Bones.", Drop("bones", 5)},
		{"[12:00:01] The dog happily eats the treat.", Feed()},
		{"[12:00:01] You find 3 Unobtainium.", None()},
		{"[12:00:01] you FIND 2 big Bones.", Drop("big_bones", 2)},
		{"[12:00:01] You find 612 Coins.  ", Drop("coins", 612)},
		{"[12:00:01] 4 Oak logs.", Drop("oak_logs", 4)},
		{"[12:00:01] You find 9 Gold ring.", Drop("gold_ring", 9)},
		{"[12:00:01] Woof! The dog happily eats the treat. Woof!", Feed()},
		{"[12:00:01] the dog happily eats the treat.", None()},
		{"[12:00:01] You find Bones.", None()},
		{"[12:00:01] You find 5 Bones", None()},
		{"[12:00:01] ❆", None()},
		{"[12:00:01]", None()},
		{"", None()},
		{"[12:00:01] You find 99999999999999999999999 Bones.", None()},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line))
		})
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "drop(bones, 5)", Drop("bones", 5).String())
	assert.Equal(t, "feed", Feed().String())
	assert.Equal(t, "none", None().String())
}
