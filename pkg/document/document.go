package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Page is a single extracted page. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// Text is the ordered page text of one document. It is never mutated once extracted.
type Text struct {
	Pages []Page
}

func NewText(pageTexts []string) Text {
	pages := make([]Page, len(pageTexts))
	for i, t := range pageTexts {
		pages[i] = Page{Number: i + 1, Text: t}
	}
	return Text{Pages: pages}
}

func (t Text) PageCount() int {
	return len(t.Pages)
}

// Joined returns every page text joined by blank lines.
func (t Text) Joined() string {
	parts := make([]string, len(t.Pages))
	for i, p := range t.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n\n")
}

// LabeledText pairs a page group label with text produced for it.
// On the wire it is a two element array: ["Pages 1-5", "..."].
type LabeledText struct {
	Label string
	Text  string
}

func (l LabeledText) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{l.Label, l.Text})
}

func (l *LabeledText) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("labeled text: expected 2 elements, got %d", len(pair))
	}
	l.Label, l.Text = pair[0], pair[1]
	return nil
}
