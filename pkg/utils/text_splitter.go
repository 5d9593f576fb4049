package utils

import "strings"

var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText cuts text into chunks of at most chunkSize runes, each repeating
// the last overlap runes of its predecessor. A chunk ends on the strongest
// separator found in its second half (paragraph, line, sentence, word) and
// falls back to a hard cut when none is present.
func SplitText(text string, chunkSize int, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	if total <= chunkSize {
		return []string{text}
	}
	if overlap >= chunkSize || overlap < 0 {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < total; {
		end := min(start+chunkSize, total)
		if end < total {
			end = breakPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == total {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func breakPoint(runes []rune, start, end int) int {
	window := string(runes[start:end])
	half := len(window) / 2
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= half {
			return start + len([]rune(window[:idx+len(sep)]))
		}
	}
	return end
}
