package review

import (
	"context"
	"fmt"
)

// SubmissionFSM manages submission status transitions using the
// ProcessEvent pattern. The FSM itself is pure: side effects are
// described by the returned outbox events and executed by the service
// layer.
type SubmissionFSM struct {
	state SubmissionState
	env   *SubmissionEnvironment
}

// NewSubmissionFSM creates a new FSM for a fresh submission. Plain
// text submissions enter at Screening; document uploads enter at
// Parsing.
func NewSubmissionFSM(submissionID, title, conferenceID string,
	initial Status,
) *SubmissionFSM {
	return &SubmissionFSM{
		state: StateFromStatus(initial),
		env: &SubmissionEnvironment{
			SubmissionID: submissionID,
			Title:        title,
			ConferenceID: conferenceID,
		},
	}
}

// NewSubmissionFSMFromDB reconstructs an FSM from a persisted status.
// Used when recovering in-flight submissions on restart.
func NewSubmissionFSMFromDB(submissionID, title, conferenceID,
	status string,
) *SubmissionFSM {
	return &SubmissionFSM{
		state: StateFromStatus(Status(status)),
		env: &SubmissionEnvironment{
			SubmissionID: submissionID,
			Title:        title,
			ConferenceID: conferenceID,
		},
	}
}

// ProcessEvent processes an event and returns the outbox events that
// should be dispatched by the service layer.
func (f *SubmissionFSM) ProcessEvent(ctx context.Context,
	event PipelineEvent,
) ([]OutboxEvent, error) {
	transition, err := f.state.ProcessEvent(ctx, event, f.env)
	if err != nil {
		return nil, fmt.Errorf("process event %T: %w", event, err)
	}

	f.state = transition.NextState

	return transition.OutboxEvents, nil
}

// CurrentStatus returns the persisted status value of the current
// state.
func (f *SubmissionFSM) CurrentStatus() Status {
	return f.state.Status()
}

// State returns the current SubmissionState.
func (f *SubmissionFSM) State() SubmissionState {
	return f.state
}

// IsTerminal returns true if the submission has reached a terminal
// state.
func (f *SubmissionFSM) IsTerminal() bool {
	return f.state.IsTerminal()
}

// Environment returns the FSM's environment.
func (f *SubmissionFSM) Environment() *SubmissionEnvironment {
	return f.env
}
