package classify

import "fmt"

// Kind tags the variant held by an Event.
type Kind int

const (
	KindNone Kind = iota
	KindFeed
	KindDrop
)

func (k Kind) String() string {
	switch k {
	case KindFeed:
		return "feed"
	case KindDrop:
		return "drop"
	default:
		return "none"
	}
}

// Event is the outcome of classifying one chat line. ItemID and Quantity
// are set only for KindDrop.
type Event struct {
	Kind     Kind
	ItemID   string
	Quantity int
}

// None is the zero Event.
func None() Event { return Event{} }

// Feed reports one treat eaten.
func Feed() Event { return Event{Kind: KindFeed} }

// Drop reports one roll of qty units of item id.
func Drop(id string, qty int) Event {
	return Event{Kind: KindDrop, ItemID: id, Quantity: qty}
}

func (e Event) String() string {
	if e.Kind == KindDrop {
		return fmt.Sprintf("drop(%s, %d)", e.ItemID, e.Quantity)
	}
	return e.Kind.String()
}
