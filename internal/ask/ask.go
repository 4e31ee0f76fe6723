// Package ask answers a question end to end: translate it against the
// dataset's Schema Index, run the SQL, and choose an encoding for the
// result.
package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roach88/askviz/internal/dataset"
	"github.com/roach88/askviz/internal/encoding"
	"github.com/roach88/askviz/internal/executor"
	"github.com/roach88/askviz/internal/translate"
)

// Answer is the outcome of one question.
type Answer struct {
	Translation translate.Translation
	Result      *executor.Result
	Encoding    encoding.Encoding

	// ExecError is set when the statement failed and Result holds the
	// executor's degraded rows.
	ExecError error
}

// Ask translates question over the executor's dataset, runs it and selects
// an encoding. requested may be encoding.Auto.
//
// An execution failure is not returned as an error: the answer carries the
// degraded result and ExecError. The error return is reserved for a
// cancelled context.
func Ask(ctx context.Context, ex *executor.Executor, question string, requested encoding.ChartType) (*Answer, error) {
	tr := translate.Translate(question, ex.Table().Index())

	res, err := ex.Run(ctx, tr.SQL)
	if res == nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	enc := encoding.SelectAs(res.Index, question, requested)
	slog.Debug("question answered",
		"intent", tr.Intent.String(),
		"chart", string(enc.Chart),
		"rows", res.Table.Len(),
		"degraded", res.Degraded)

	return &Answer{Translation: tr, Result: res, Encoding: enc, ExecError: err}, nil
}

// Payload is the JSON document stored with a saved visualization.
type Payload struct {
	Intent      string            `json:"intent"`
	Explanation string            `json:"explanation"`
	Encoding    encoding.Encoding `json:"encoding"`
	Degraded    bool              `json:"degraded,omitempty"`
	Result      *dataset.Table    `json:"result"`
}

// Payload returns the answer's stored form.
func (a *Answer) Payload() Payload {
	return Payload{
		Intent:      a.Translation.Intent.String(),
		Explanation: a.Translation.Explanation,
		Encoding:    a.Encoding,
		Degraded:    a.Result.Degraded,
		Result:      a.Result.Table,
	}
}

// MarshalPayload encodes Payload as JSON.
func (a *Answer) MarshalPayload() (json.RawMessage, error) {
	data, err := json.Marshal(a.Payload())
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}
