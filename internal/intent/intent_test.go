package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text    string
		want    Intent
		matched bool
	}{
		{"total sales by region", Aggregate, true},
		{"how many orders", Aggregate, true},
		{"where region is west", Filter, true},
		{"show me products", Filter, true},
		{"compare region and product", Comparison, true},
		{"north vs south", Comparison, true},
		{"revenue trend", Trend, true},
		{"revenue over time", Trend, true},
		{"yearly profit", Trend, true},
		{"", Aggregate, false},
		{"hello there", Aggregate, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, matched := Classify(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"total sales trend by month", Aggregate},
		{"average revenue where region is west", Aggregate},
		{"show me a comparison vs last year", Filter},
		{"compare the monthly trend", Comparison},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _ := Classify(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Cues are plain substrings, so they also fire inside longer words.
func TestClassify_SubstringCues(t *testing.T) {
	got, _ := Classify("account summary")
	assert.Equal(t, Aggregate, got, `"count" occurs inside "account"`)

	got, _ = Classify("find nothing")
	assert.Equal(t, Filter, got)
}
