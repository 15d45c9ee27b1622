package review

import (
	"time"

	"github.com/roasbeef/revue/internal/baselib/actor"
)

// SubmissionRequest is the union type for all submission service
// requests.
type SubmissionRequest interface {
	actor.Message
	isSubmissionRequest()
}

// SubmissionResponse is the union type for all submission service
// responses.
type SubmissionResponse interface {
	isSubmissionResponse()
}

// Ensure all request types implement SubmissionRequest.
func (StartReviewMsg) isSubmissionRequest()      {}
func (IngestDocumentMsg) isSubmissionRequest()   {}
func (GetSubmissionMsg) isSubmissionRequest()    {}
func (ListSubmissionsMsg) isSubmissionRequest()  {}
func (DeleteSubmissionMsg) isSubmissionRequest() {}
func (AppendRebuttalMsg) isSubmissionRequest()   {}

// Ensure all response types implement SubmissionResponse.
func (StartReviewResp) isSubmissionResponse()      {}
func (IngestDocumentResp) isSubmissionResponse()   {}
func (GetSubmissionResp) isSubmissionResponse()    {}
func (ListSubmissionsResp) isSubmissionResponse()  {}
func (DeleteSubmissionResp) isSubmissionResponse() {}
func (AppendRebuttalResp) isSubmissionResponse()   {}

// =============================================================================
// Request messages
// =============================================================================

// StartReviewMsg starts the pipeline for a plain text submission.
type StartReviewMsg struct {
	actor.BaseMessage

	Title        string
	Content      string
	ConferenceID string
}

// MessageType implements actor.Message.
func (StartReviewMsg) MessageType() string { return "StartReviewMsg" }

// IngestDocumentMsg starts the pipeline for an uploaded document. The
// submission enters at the parsing state while the document is
// converted to text.
type IngestDocumentMsg struct {
	actor.BaseMessage

	Title        string
	ConferenceID string
	FileName     string
	Data         []byte
}

// MessageType implements actor.Message.
func (IngestDocumentMsg) MessageType() string { return "IngestDocumentMsg" }

// GetSubmissionMsg requests full details for one submission.
type GetSubmissionMsg struct {
	actor.BaseMessage

	SubmissionID string
}

// MessageType implements actor.Message.
func (GetSubmissionMsg) MessageType() string { return "GetSubmissionMsg" }

// ListSubmissionsMsg requests dashboard summaries for all submissions.
type ListSubmissionsMsg struct {
	actor.BaseMessage
}

// MessageType implements actor.Message.
func (ListSubmissionsMsg) MessageType() string { return "ListSubmissionsMsg" }

// DeleteSubmissionMsg removes a submission and its rebuttal dialogue.
type DeleteSubmissionMsg struct {
	actor.BaseMessage

	SubmissionID string
}

// MessageType implements actor.Message.
func (DeleteSubmissionMsg) MessageType() string {
	return "DeleteSubmissionMsg"
}

// AppendRebuttalMsg appends an author turn to a completed submission's
// rebuttal dialogue and synchronously produces the reviewer's reply.
type AppendRebuttalMsg struct {
	actor.BaseMessage

	SubmissionID string
	Text         string
}

// MessageType implements actor.Message.
func (AppendRebuttalMsg) MessageType() string { return "AppendRebuttalMsg" }

// =============================================================================
// Response messages
// =============================================================================

// StartReviewResp is the response for a StartReviewMsg.
type StartReviewResp struct {
	SubmissionID string
	Status       Status
	Error        error
}

// IngestDocumentResp is the response for an IngestDocumentMsg.
type IngestDocumentResp struct {
	SubmissionID string
	Status       Status
	Error        error
}

// SubmissionView is the full representation of a submission returned
// to clients.
type SubmissionView struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	ConferenceID string         `json:"conferenceId"`
	Status       Status         `json:"status"`
	Result       *Result        `json:"result,omitempty"`
	RebuttalChat []RebuttalTurn `json:"rebuttalChat"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// GetSubmissionResp is the response for a GetSubmissionMsg.
type GetSubmissionResp struct {
	Submission *SubmissionView
	Error      error
}

// SubmissionSummary is a lightweight submission representation for the
// dashboard listing.
type SubmissionSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ConferenceID  string    `json:"conferenceId"`
	Status        Status    `json:"status"`
	Summary       string    `json:"summary,omitempty"`
	FinalDecision string    `json:"finalDecision,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListSubmissionsResp is the response for a ListSubmissionsMsg.
type ListSubmissionsResp struct {
	Submissions []SubmissionSummary
	Error       error
}

// DeleteSubmissionResp is the response for a DeleteSubmissionMsg.
type DeleteSubmissionResp struct {
	Error error
}

// AppendRebuttalResp is the response for an AppendRebuttalMsg. Reply is
// the reviewer turn appended after the author turn, which is the
// fallback text when the model call failed.
type AppendRebuttalResp struct {
	Reply string
	Chat  []RebuttalTurn
	Error error
}
