package rewrite

import "strings"

var sentenceTerminators = []string{". ", "! ", "? "}

// splitChunks splits text into pieces of at most budget runes. Within each
// window the cut prefers the last sentence terminator past the midpoint so
// no chunk ends mid-sentence; only when no terminator exists there does it
// cut at the raw rune boundary.
func splitChunks(text string, budget int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if budget <= 0 {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > budget {
		window := string(runes[:budget])

		cut := budget
		if idx := lastTerminator(window); idx >= 0 {
			// The terminator search runs on bytes; translate back
			// to runes before comparing against the budget.
			if runeIdx := len([]rune(window[:idx])); runeIdx > budget/2 {
				cut = runeIdx
			}
		}

		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}

	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// lastTerminator returns the byte index just past the last sentence
// terminator in s, or -1.
func lastTerminator(s string) int {
	best := -1
	for _, term := range sentenceTerminators {
		if idx := strings.LastIndex(s, term); idx >= 0 && idx+1 > best {
			best = idx + 1 // keep the punctuation, drop the trailing space
		}
	}
	return best
}
