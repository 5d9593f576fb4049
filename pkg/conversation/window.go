package conversation

// Turn records the token cost of one completed exchange.
type Turn struct {
	HistoryTokens int
	QueryTokens   int
	AnswerTokens  int
}

func (t Turn) Total() int {
	return t.HistoryTokens + t.QueryTokens + t.AnswerTokens
}

// Window is the ordered list of completed turns for one session, oldest first.
// Operations return a new Window and never modify the receiver's backing array.
type Window struct {
	turns []Turn
}

func NewWindow(turns ...Turn) Window {
	return Window{turns: append([]Turn(nil), turns...)}
}

func (w Window) Len() int { return len(w.turns) }

// Turns returns a copy of the turns, oldest first.
func (w Window) Turns() []Turn {
	return append([]Turn(nil), w.turns...)
}

func (w Window) Total() int {
	total := 0
	for _, t := range w.turns {
		total += t.Total()
	}
	return total
}

// Append returns a window with t added as the newest turn.
func (w Window) Append(t Turn) Window {
	turns := make([]Turn, len(w.turns), len(w.turns)+1)
	copy(turns, w.turns)
	return Window{turns: append(turns, t)}
}

// PopFront returns the oldest turn and the window without it.
// ok is false when the window is empty.
func (w Window) PopFront() (Turn, Window, bool) {
	if len(w.turns) == 0 {
		return Turn{}, w, false
	}
	return w.turns[0], Window{turns: w.turns[1:]}, true
}
