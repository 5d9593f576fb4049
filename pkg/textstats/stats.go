package textstats

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"ai-pdfstudy-be/pkg/document"
)

const wordsPerMinute = 200

// Statistics describes the size of a document. Values are rendered as strings
// so the client can show them verbatim.
type Statistics struct {
	Pages               string `json:"pages"`
	Words               string `json:"words"`
	Characters          string `json:"characters"`
	Sentences           string `json:"sentences"`
	AverageWordsPerPage string `json:"averageWordsPerPage"`
	ReadingTimeMinutes  string `json:"readingTimeMinutes"`
}

type counts struct {
	pages, words, characters, sentences int
}

func Compute(text document.Text) Statistics {
	c := count(text)

	avg := 0
	if c.pages > 0 {
		avg = int(math.Round(float64(c.words) / float64(c.pages)))
	}
	minutes := int(math.Ceil(float64(c.words) / wordsPerMinute))

	return Statistics{
		Pages:               strconv.Itoa(c.pages),
		Words:               strconv.Itoa(c.words),
		Characters:          strconv.Itoa(c.characters),
		Sentences:           strconv.Itoa(c.sentences),
		AverageWordsPerPage: strconv.Itoa(avg),
		ReadingTimeMinutes:  strconv.Itoa(minutes),
	}
}

func count(text document.Text) counts {
	c := counts{pages: text.PageCount()}
	for _, p := range text.Pages {
		c.words += len(strings.Fields(p.Text))
		c.characters += utf8.RuneCountInString(p.Text)
		c.sentences += sentences(p.Text)
	}
	return c
}

// sentences counts runs of terminal punctuation, plus a trailing sentence
// that has no terminator. A dot between two digits is a decimal point.
func sentences(s string) int {
	runes := []rune(s)
	n := 0
	pending := false
	for i, r := range runes {
		switch {
		case r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			continue
		case r == '.' || r == '!' || r == '?':
			if pending {
				n++
			}
			pending = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			pending = true
		}
	}
	if pending {
		n++
	}
	return n
}
