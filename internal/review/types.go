package review

import (
	"encoding/json"
	"fmt"
)

// Decision values the full review stage may produce.
const (
	DecisionAccept     = "Accept"
	DecisionWeakAccept = "Weak Accept"
	DecisionWeakReject = "Weak Reject"
	DecisionReject     = "Reject"
)

// Ethics flag values.
const (
	EthicsFlagYes = "Yes"
	EthicsFlagNo  = "No"
)

// Ratings holds the six 1-10 scores the reviewer assigns.
type Ratings struct {
	Relevance        int `json:"relevance"`
	Novelty          int `json:"novelty"`
	TechnicalQuality int `json:"technicalQuality"`
	Presentation     int `json:"presentation"`
	Reproducibility  int `json:"reproducibility"`
	Confidence       int `json:"confidence"`
}

// Result is the accumulated output of the review pipeline for one
// submission. Every field past the desk reject pair is optional: the
// screen stage populates only the first two, and the full review stage
// fills in the rest. Fields merge additively as stages complete.
type Result struct {
	IsDeskReject     bool   `json:"isDeskReject"`
	DeskRejectReason string `json:"deskRejectReason,omitempty"`

	DeskRejectAssessment string `json:"deskRejectAssessment,omitempty"`
	Summary              string `json:"summary,omitempty"`
	Strengths            string `json:"strengths,omitempty"`
	Weaknesses           string `json:"weaknesses,omitempty"`
	MissingRelatedWork   string `json:"missingRelatedWork,omitempty"`
	QuestionsForRebuttal string `json:"questionsForRebuttal,omitempty"`

	Ratings *Ratings `json:"ratings,omitempty"`

	EthicsFlag        string `json:"ethicsFlag,omitempty"`
	EthicsDescription string `json:"ethicsDescription,omitempty"`

	GenAIAnalysis string `json:"genAIAnalysis,omitempty"`

	FinalDecision string `json:"finalDecision,omitempty"`

	// RawOutput preserves the model's verbatim response text from the
	// full review stage.
	RawOutput string `json:"rawOutput,omitempty"`
}

// Validate checks that a decoded full review carries every section the
// response contract marks as required.
func (r *Result) Validate() error {
	required := []struct {
		field string
		ok    bool
	}{
		{"deskRejectAssessment", r.DeskRejectAssessment != ""},
		{"summary", r.Summary != ""},
		{"strengths", r.Strengths != ""},
		{"weaknesses", r.Weaknesses != ""},
		{"ratings", r.Ratings != nil},
		{"finalDecision", r.FinalDecision != ""},
		{"ethicsFlag", r.EthicsFlag != ""},
		{"genAIAnalysis", r.GenAIAnalysis != ""},
	}
	for _, req := range required {
		if !req.ok {
			return fmt.Errorf("review response missing "+
				"required field %q", req.field)
		}
	}

	switch r.FinalDecision {
	case DecisionAccept, DecisionWeakAccept, DecisionWeakReject,
		DecisionReject:

	default:
		return fmt.Errorf("review response has invalid "+
			"finalDecision %q", r.FinalDecision)
	}

	switch r.EthicsFlag {
	case EthicsFlagYes, EthicsFlagNo:

	default:
		return fmt.Errorf("review response has invalid "+
			"ethicsFlag %q", r.EthicsFlag)
	}

	return nil
}

// MergeSnapshots shallow-merges an incoming result snapshot over an
// existing one. Top level fields present in the incoming snapshot
// overwrite the existing value; fields absent from it are preserved.
// Either snapshot may be nil or empty.
func MergeSnapshots(existing, incoming []byte) ([]byte, error) {
	merged := make(map[string]json.RawMessage)

	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return nil, fmt.Errorf("decode existing result: %w",
				err)
		}
	}

	if len(incoming) > 0 {
		delta := make(map[string]json.RawMessage)
		if err := json.Unmarshal(incoming, &delta); err != nil {
			return nil, fmt.Errorf("decode incoming result: %w",
				err)
		}
		for key, val := range delta {
			merged[key] = val
		}
	}

	return json.Marshal(merged)
}

// DecodeResult parses a stored result snapshot. A nil or empty snapshot
// decodes to nil.
func DecodeResult(snapshot []byte) (*Result, error) {
	if len(snapshot) == 0 {
		return nil, nil
	}

	var res Result
	if err := json.Unmarshal(snapshot, &res); err != nil {
		return nil, fmt.Errorf("decode result snapshot: %w", err)
	}

	return &res, nil
}
