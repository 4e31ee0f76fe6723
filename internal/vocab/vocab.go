// Package vocab holds the fixed keyword vocabularies used by the question
// heuristics and the single generic matcher that evaluates them.
//
// Every classification rule in askviz is a row in an ordered Table: a
// vocabulary paired with the category it selects. Tables are evaluated
// top to bottom and the first row with a hit wins. Row order is part of the
// behaviour: "total sales trend" must classify by the aggregate row because
// that row is listed before the trend row.
package vocab

import "strings"

// Rule pairs a vocabulary with the category it selects.
type Rule[T any] struct {
	Terms  []string
	Result T
}

// Table is an ordered list of rules. The zero value matches nothing.
type Table[T any] []Rule[T]

// FirstSubstring returns the result of the first rule that has a term
// occurring anywhere in text. ok is false when no rule matches.
func (t Table[T]) FirstSubstring(text string) (result T, ok bool) {
	for _, rule := range t {
		if ContainsAny(text, rule.Terms) {
			return rule.Result, true
		}
	}
	return result, false
}

// FirstToken returns the result of the first rule that lists token exactly.
func (t Table[T]) FirstToken(token string) (result T, ok bool) {
	for _, rule := range t {
		for _, term := range rule.Terms {
			if term == token {
				return rule.Result, true
			}
		}
	}
	return result, false
}

// Terms returns every term of every rule, in table order.
func (t Table[T]) Terms() []string {
	var out []string
	for _, rule := range t {
		out = append(out, rule.Terms...)
	}
	return out
}

// ContainsAny reports whether any term occurs as a substring of text.
func ContainsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Set is a whole-token vocabulary.
type Set map[string]struct{}

// NewSet builds a Set from words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether word is a member of the set.
func (s Set) Has(word string) bool {
	_, ok := s[word]
	return ok
}
