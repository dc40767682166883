package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/droptrack/internal/assets"
)

const (
	animDelay = 60 * time.Millisecond
	laneStep  = 2
	dogGlyph  = "(dog)"
)

type animTickMsg struct{}

// treat is one food label travelling from the right edge of the lane
// towards the dog on the left.
type treat struct {
	label string
	x     int
}

// feedLane animates one treat per feed event.
type feedLane struct {
	foods   []string
	treats  []treat
	running bool
}

// spawn queues a treat at the right edge of a lane width columns wide and
// returns the tick command if the animation was idle.
func (l *feedLane) spawn(width int) tea.Cmd {
	name := assets.Pick(l.foods)
	if name == "" {
		return nil
	}
	l.treats = append(l.treats, treat{label: assets.Label(name), x: width})
	if l.running {
		return nil
	}
	l.running = true
	return animTick()
}

// step advances every treat, dropping those that reached the dog.
func (l *feedLane) step() tea.Cmd {
	kept := l.treats[:0]
	for _, t := range l.treats {
		t.x -= laneStep
		if t.x > runewidth.StringWidth(dogGlyph) {
			kept = append(kept, t)
		}
	}
	l.treats = kept
	if len(l.treats) == 0 {
		l.running = false
		return nil
	}
	return animTick()
}

// view draws the lane as a single line width columns wide.
func (l *feedLane) view(width int) string {
	dogW := runewidth.StringWidth(dogGlyph)
	if width <= dogW {
		return styleDog.Render(dogGlyph)
	}
	cells := []rune(strings.Repeat(" ", width-dogW))
	for _, t := range l.treats {
		pos := t.x - dogW
		for i, r := range []rune(t.label) {
			if p := pos + i; p >= 0 && p < len(cells) {
				cells[p] = r
			}
		}
	}
	return styleDog.Render(dogGlyph) + styleFood.Render(string(cells))
}

func animTick() tea.Cmd {
	return tea.Tick(animDelay, func(time.Time) tea.Msg { return animTickMsg{} })
}
