package harness

import (
	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/translate"
)

// Outcome is what one scenario case produced.
type Outcome struct {
	Question string `json:"question"`

	// Requested is the chart the case asked for; Auto when it named none.
	Requested encoding.ChartType `json:"requested"`

	Translation translate.Translation `json:"-"`
	Encoding    encoding.Encoding     `json:"encoding"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per case, in scenario order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
