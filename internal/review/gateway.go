package review

import (
	"context"

	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/config"
)

// Dialogue roles for rebuttal turns.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ScreenVerdict is the outcome of the desk reject check.
type ScreenVerdict struct {
	IsDeskReject bool   `json:"isDeskReject"`
	Reason       string `json:"reason"`
}

// ScreenRequest carries everything the desk reject check needs.
type ScreenRequest struct {
	PaperText  string
	Conference conference.Conference
	Config     config.AppConfig
}

// ReviewRequest carries everything the full review stage needs.
type ReviewRequest struct {
	PaperText  string
	Conference conference.Conference
	Config     config.AppConfig
}

// RebuttalTurn is one message of the rebuttal dialogue.
type RebuttalTurn struct {
	Role string
	Text string
}

// RebuttalRequest carries the dialogue so far plus the review context
// the reviewer persona argues from. History must end with the author
// turn awaiting a response.
type RebuttalRequest struct {
	History        []RebuttalTurn
	PaperTitle     string
	InitialReview  *Result
	ConferenceName string
	Config         config.AppConfig
}

// Gateway is the model backend the pipeline drives. Implementations
// own prompt construction, response decoding, and per-stage failure
// policy: Screen degrades to a pass verdict on transport errors while
// Review surfaces them.
type Gateway interface {
	// Screen runs the desk reject check. It errors only when no
	// credential is available; any failure past that point yields a
	// fail-open verdict instead.
	Screen(ctx context.Context, req ScreenRequest) (*ScreenVerdict,
		error)

	// Review runs the full structured review.
	Review(ctx context.Context, req ReviewRequest) (*Result, error)

	// Rebuttal generates the reviewer's next dialogue turn.
	Rebuttal(ctx context.Context, req RebuttalRequest) (string, error)
}
