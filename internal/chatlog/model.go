package chatlog

// Fragment is one OCR text run from a single chatbox poll. Fragments of
// one poll arrive in read order; a fragment may hold a whole line or only
// part of one.
type Fragment struct {
	Text string `json:"text"`
}

// Fragments wraps plain strings, mostly for tests and replay files.
func Fragments(texts ...string) []Fragment {
	out := make([]Fragment, len(texts))
	for i, t := range texts {
		out[i] = Fragment{Text: t}
	}
	return out
}
