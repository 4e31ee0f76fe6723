// Package normalize turns a raw question into the canonical text and token
// stream consumed by keyword extraction, intent classification and chart
// keyword overrides.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation is the ASCII punctuation set removed from questions.
// Underscore is kept: normalized column names use it as a word separator.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~"

// Result is a normalized question.
type Result struct {
	// Text is the lowercased question with punctuation removed and
	// whitespace collapsed to single spaces.
	Text string

	// Tokens are the whitespace-separated words of Text with stop-words removed.
	Tokens []string
}

// Normalize cleans and tokenizes a question. Empty input yields an empty
// Result (Text "" and no tokens).
func Normalize(raw string) Result {
	text := Clean(raw)
	if text == "" {
		return Result{}
	}

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if !IsStopWord(w) {
			tokens = append(tokens, w)
		}
	}
	return Result{Text: text, Tokens: tokens}
}

// Clean lowercases raw, removes punctuation and collapses whitespace.
//
// The input is NFKC-folded first so full-width letters and compatibility
// forms lowercase and match like their ASCII counterparts.
func Clean(raw string) string {
	folded := norm.NFKC.String(raw)
	// cases.Caser is stateful; one per call keeps Clean safe for concurrent use.
	lowered := cases.Lower(language.Und).String(folded)

	stripped := strings.Map(func(r rune) rune {
		if isPunctuation(r) {
			return -1
		}
		return r
	}, lowered)

	return strings.Join(strings.Fields(stripped), " ")
}

func isPunctuation(r rune) bool {
	if r == '_' {
		return false
	}
	if r < unicode.MaxASCII {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return unicode.IsPunct(r)
}
