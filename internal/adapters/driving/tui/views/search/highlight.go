package search

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence renders text with the sentence sharing the most words
// with query drawn in style. Text without any shared word is returned as is.
func highlightBestSentence(text, query string, style lipgloss.Style) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	queryWords := wordSet(query)
	best, bestScore := -1, 0
	for i, s := range sentences {
		if score := overlap(queryWords, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return text
	}

	out := make([]string, len(sentences))
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if i == best {
			s = style.Render(s)
		}
		out[i] = s
	}
	return strings.Join(out, " ")
}

func wordSet(s string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(query map[string]struct{}, sentence string) int {
	n := 0
	for w := range wordSet(sentence) {
		if _, ok := query[w]; ok {
			n++
		}
	}
	return n
}
