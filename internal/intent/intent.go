// Package intent classifies a normalized question into one of four coarse
// analytic intents.
package intent

import "github.com/roach88/askviz/internal/vocab"

// Intent is the coarse category of analytic operation a question requests.
type Intent string

const (
	Aggregate  Intent = "aggregate"
	Filter     Intent = "filter"
	Comparison Intent = "comparison"
	Trend      Intent = "trend"
)

// String returns the intent label.
func (i Intent) String() string { return string(i) }

// cues is evaluated top to bottom and the first row with a substring hit
// wins. A question with both aggregate and trend language ("total sales
// trend") must classify as Aggregate, so the aggregate row comes first.
var cues = vocab.Table[Intent]{
	{Terms: []string{"total", "sum", "average", "count", "how many", "mean"}, Result: Aggregate},
	{Terms: []string{"where", "filter", "only", "show me", "find"}, Result: Filter},
	{Terms: []string{"compare", "versus", "vs", "difference", "compared to"}, Result: Comparison},
	{Terms: []string{"trend", "over time", "by month", "by year", "by day", "monthly", "yearly"}, Result: Trend},
}

// Classify maps normalized question text to an Intent. matched is false when
// no cue occurs in text, in which case the intent defaults to Aggregate.
func Classify(text string) (in Intent, matched bool) {
	if in, ok := cues.FirstSubstring(text); ok {
		return in, true
	}
	return Aggregate, false
}
