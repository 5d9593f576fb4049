package conversation

// History is the client-held transcript. User[i] and Bot[i] form one exchange
// and line up with the i-th turn of the session window.
type History struct {
	User []string `json:"user"`
	Bot  []string `json:"bot"`
}

// Pair is one user/bot exchange.
type Pair struct {
	User string
	Bot  string
}

func (h History) Validate() error {
	if len(h.User) != len(h.Bot) {
		return ErrHistoryMisaligned
	}
	return nil
}

func (h History) Len() int { return len(h.User) }

func (h History) Pairs() []Pair {
	n := min(len(h.User), len(h.Bot))
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{User: h.User[i], Bot: h.Bot[i]}
	}
	return pairs
}

// DropFront returns a copy without the oldest exchange.
func (h History) DropFront() History {
	out := History{User: []string{}, Bot: []string{}}
	if len(h.User) > 1 {
		out.User = append(out.User, h.User[1:]...)
	}
	if len(h.Bot) > 1 {
		out.Bot = append(out.Bot, h.Bot[1:]...)
	}
	return out
}

func (h History) clone() History {
	return History{
		User: append([]string{}, h.User...),
		Bot:  append([]string{}, h.Bot...),
	}
}
