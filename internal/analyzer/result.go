package analyzer

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/classifier"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
)

// errorSeparator joins Result.Errors in the JSON form.
const errorSeparator = " | "

// Result is the outcome of analyzing one document.
type Result struct {
	ID            uuid.UUID
	RunID         string
	PathIn        string
	PathOut       *string // set only when the file was moved
	TopClass      string
	Confidence    float64
	Probabilities classifier.Probabilities
	Extracted     extract.Fields // nil below the threshold or for "other"
	Errors        []string
	Status        constants.AnalysisStatus
	Method        string
	Duration      time.Duration
	AnalyzedAt    time.Time
}

type resultJSON struct {
	ID            uuid.UUID          `json:"id"`
	RunID         string             `json:"run_id"`
	PathIn        string             `json:"path_in"`
	PathOut       *string            `json:"path_out"`
	TopClass      string             `json:"top_class"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Extracted     json.RawMessage    `json:"extracted"`
	Errors        *string            `json:"errors"`
	Status        string             `json:"status"`
	Method        string             `json:"method,omitempty"`
	DurationMS    int64              `json:"duration_ms"`
	AnalyzedAt    time.Time          `json:"analyzed_at"`
}

// Round4 rounds to the four decimals used in every external representation.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// ErrorString joins the errors, or returns "" when there are none.
func (r Result) ErrorString() string {
	return strings.Join(r.Errors, errorSeparator)
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		ID:            r.ID,
		RunID:         r.RunID,
		PathIn:        r.PathIn,
		PathOut:       r.PathOut,
		TopClass:      r.TopClass,
		Confidence:    Round4(r.Confidence),
		Probabilities: make(map[string]float64, len(r.Probabilities)),
		Extracted:     json.RawMessage("null"),
		Status:        string(r.Status),
		Method:        r.Method,
		DurationMS:    r.Duration.Milliseconds(),
		AnalyzedAt:    r.AnalyzedAt,
	}
	for k, v := range r.Probabilities {
		out.Probabilities[k] = Round4(v)
	}
	if r.Extracted != nil {
		b, err := json.Marshal(r.Extracted)
		if err != nil {
			return nil, err
		}
		out.Extracted = b
	}
	if len(r.Errors) > 0 {
		s := r.ErrorString()
		out.Errors = &s
	}
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	fields, err := extract.Decode(constants.DocType(in.TopClass), in.Extracted)
	if err != nil {
		return err
	}
	*r = Result{
		ID:            in.ID,
		RunID:         in.RunID,
		PathIn:        in.PathIn,
		PathOut:       in.PathOut,
		TopClass:      in.TopClass,
		Confidence:    in.Confidence,
		Probabilities: classifier.Probabilities(in.Probabilities),
		Extracted:     fields,
		Status:        constants.AnalysisStatus(in.Status),
		Method:        in.Method,
		Duration:      time.Duration(in.DurationMS) * time.Millisecond,
		AnalyzedAt:    in.AnalyzedAt,
	}
	if in.Errors != nil && *in.Errors != "" {
		r.Errors = strings.Split(*in.Errors, errorSeparator)
	}
	return nil
}

// Failed builds the result reported for a document whose analysis never
// finished, e.g. because its deadline passed.
func Failed(path, runID string, err error) Result {
	r := Result{
		ID:         uuid.New(),
		RunID:      runID,
		PathIn:     path,
		TopClass:   string(constants.Other),
		Status:     constants.StatusFailed,
		AnalyzedAt: time.Now().UTC(),
	}
	if err != nil {
		r.Errors = []string{err.Error()}
	}
	return r
}
