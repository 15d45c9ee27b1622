package review

import (
	"context"
	"fmt"
)

// SubmissionState is the sealed interface for all pipeline states. Each
// state handles incoming events and returns state transitions with
// optional outbox events for side effects.
type SubmissionState interface {
	// ProcessEvent handles an incoming event and returns the next
	// state along with any outbox events to emit.
	ProcessEvent(ctx context.Context, event PipelineEvent,
		env *SubmissionEnvironment) (*Transition, error)

	// Status returns the persisted status value for this state.
	Status() Status

	// IsTerminal returns true if this is a terminal state.
	IsTerminal() bool

	// isSubmissionState seals the interface.
	isSubmissionState()
}

// Transition represents the result of processing an event.
type Transition struct {
	NextState    SubmissionState
	OutboxEvents []OutboxEvent
}

// SubmissionEnvironment provides context for state transitions.
type SubmissionEnvironment struct {
	SubmissionID string
	Title        string
	ConferenceID string
}

// Compile-time verification that all concrete states implement
// SubmissionState.
var (
	_ SubmissionState = (*StateParsingDoc)(nil)
	_ SubmissionState = (*StateScreeningSub)(nil)
	_ SubmissionState = (*StateDeskRejectedSub)(nil)
	_ SubmissionState = (*StateReviewingSub)(nil)
	_ SubmissionState = (*StateCompletedSub)(nil)
	_ SubmissionState = (*StateFailedSub)(nil)
)

// =============================================================================
// StateParsingDoc: the uploaded document is being converted to text.
// =============================================================================

// StateParsingDoc is the entry state for submissions created from a
// document upload. Plain text submissions skip it and start in
// StateScreeningSub.
type StateParsingDoc struct{}

// ProcessEvent handles events in the Parsing state.
func (s *StateParsingDoc) ProcessEvent(_ context.Context,
	event PipelineEvent, env *SubmissionEnvironment,
) (*Transition, error) {
	switch e := event.(type) {
	case TextExtractedEvent:
		return &Transition{
			NextState: &StateScreeningSub{},
			OutboxEvents: []OutboxEvent{
				PersistContent{
					SubmissionID: env.SubmissionID,
					Text:         e.Text,
				},
				PersistStatus{
					SubmissionID: env.SubmissionID,
					NewStatus:    StatusScreening,
				},
				NotifyStatusChange{
					SubmissionID: env.SubmissionID,
					OldStatus:    StatusParsing,
					NewStatus:    StatusScreening,
				},
				RunScreenStage{
					SubmissionID: env.SubmissionID,
				},
			},
		}, nil

	case ExtractionFailedEvent:
		return failTransition(StatusParsing, env), nil

	default:
		return nil, fmt.Errorf(
			"unexpected event %T in state Parsing", event,
		)
	}
}

func (s *StateParsingDoc) Status() Status     { return StatusParsing }
func (s *StateParsingDoc) IsTerminal() bool   { return false }
func (s *StateParsingDoc) isSubmissionState() {}

// =============================================================================
// StateScreeningSub: the desk reject check is in flight.
// =============================================================================

// StateScreeningSub indicates the desk reject check is running.
type StateScreeningSub struct{}

// ProcessEvent handles events in the Screening state.
func (s *StateScreeningSub) ProcessEvent(_ context.Context,
	event PipelineEvent, env *SubmissionEnvironment,
) (*Transition, error) {
	switch e := event.(type) {
	case ScreenPassedEvent:
		return &Transition{
			NextState: &StateReviewingSub{},
			OutboxEvents: []OutboxEvent{
				PersistStatus{
					SubmissionID: env.SubmissionID,
					NewStatus:    StatusReviewing,
				},
				NotifyStatusChange{
					SubmissionID: env.SubmissionID,
					OldStatus:    StatusScreening,
					NewStatus:    StatusReviewing,
				},
				RunReviewStage{
					SubmissionID: env.SubmissionID,
				},
			},
		}, nil

	case DeskRejectedEvent:
		return &Transition{
			NextState: &StateDeskRejectedSub{Reason: e.Reason},
			OutboxEvents: []OutboxEvent{
				MergeResult{
					SubmissionID: env.SubmissionID,
					Delta: &Result{
						IsDeskReject:     true,
						DeskRejectReason: e.Reason,
					},
				},
				PersistStatus{
					SubmissionID: env.SubmissionID,
					NewStatus:    StatusDeskRejected,
				},
				NotifyStatusChange{
					SubmissionID: env.SubmissionID,
					OldStatus:    StatusScreening,
					NewStatus:    StatusDeskRejected,
				},
			},
		}, nil

	case PipelineFailedEvent:
		return failTransition(StatusScreening, env), nil

	default:
		return nil, fmt.Errorf(
			"unexpected event %T in state Screening", event,
		)
	}
}

func (s *StateScreeningSub) Status() Status     { return StatusScreening }
func (s *StateScreeningSub) IsTerminal() bool   { return false }
func (s *StateScreeningSub) isSubmissionState() {}

// =============================================================================
// StateReviewingSub: the full review stage is in flight.
// =============================================================================

// StateReviewingSub indicates the screen passed and the full review is
// running.
type StateReviewingSub struct{}

// ProcessEvent handles events in the Reviewing state.
func (s *StateReviewingSub) ProcessEvent(_ context.Context,
	event PipelineEvent, env *SubmissionEnvironment,
) (*Transition, error) {
	switch e := event.(type) {
	case ReviewCompletedEvent:
		return &Transition{
			NextState: &StateCompletedSub{},
			OutboxEvents: []OutboxEvent{
				MergeResult{
					SubmissionID: env.SubmissionID,
					Delta:        e.Result,
				},
				PersistStatus{
					SubmissionID: env.SubmissionID,
					NewStatus:    StatusCompleted,
				},
				NotifyStatusChange{
					SubmissionID: env.SubmissionID,
					OldStatus:    StatusReviewing,
					NewStatus:    StatusCompleted,
				},
			},
		}, nil

	case PipelineFailedEvent:
		return failTransition(StatusReviewing, env), nil

	default:
		return nil, fmt.Errorf(
			"unexpected event %T in state Reviewing", event,
		)
	}
}

func (s *StateReviewingSub) Status() Status     { return StatusReviewing }
func (s *StateReviewingSub) IsTerminal() bool   { return false }
func (s *StateReviewingSub) isSubmissionState() {}

// =============================================================================
// Terminal states: DeskRejected, Completed, Failed.
// =============================================================================

// StateDeskRejectedSub indicates the screen stage rejected the
// submission outright.
type StateDeskRejectedSub struct {
	Reason string
}

// ProcessEvent returns an error since DeskRejected is a terminal state.
func (s *StateDeskRejectedSub) ProcessEvent(_ context.Context,
	event PipelineEvent, _ *SubmissionEnvironment,
) (*Transition, error) {
	return nil, fmt.Errorf(
		"submission is in terminal state DeskRejected, cannot "+
			"process %T", event,
	)
}

func (s *StateDeskRejectedSub) Status() Status     { return StatusDeskRejected }
func (s *StateDeskRejectedSub) IsTerminal() bool   { return true }
func (s *StateDeskRejectedSub) isSubmissionState() {}

// StateCompletedSub indicates the full review finished. Only rebuttal
// turns are accepted from here, and those never re-enter the FSM.
type StateCompletedSub struct{}

// ProcessEvent returns an error since Completed is a terminal state.
func (s *StateCompletedSub) ProcessEvent(_ context.Context,
	event PipelineEvent, _ *SubmissionEnvironment,
) (*Transition, error) {
	return nil, fmt.Errorf(
		"submission is in terminal state Completed, cannot "+
			"process %T", event,
	)
}

func (s *StateCompletedSub) Status() Status     { return StatusCompleted }
func (s *StateCompletedSub) IsTerminal() bool   { return true }
func (s *StateCompletedSub) isSubmissionState() {}

// StateFailedSub indicates a fatal stage error ended the pipeline.
type StateFailedSub struct{}

// ProcessEvent returns an error since Failed is a terminal state.
func (s *StateFailedSub) ProcessEvent(_ context.Context,
	event PipelineEvent, _ *SubmissionEnvironment,
) (*Transition, error) {
	return nil, fmt.Errorf(
		"submission is in terminal state Failed, cannot process %T",
		event,
	)
}

func (s *StateFailedSub) Status() Status     { return StatusFailed }
func (s *StateFailedSub) IsTerminal() bool   { return true }
func (s *StateFailedSub) isSubmissionState() {}

// failTransition builds the shared transition into the Failed state.
func failTransition(from Status, env *SubmissionEnvironment) *Transition {
	return &Transition{
		NextState: &StateFailedSub{},
		OutboxEvents: []OutboxEvent{
			PersistStatus{
				SubmissionID: env.SubmissionID,
				NewStatus:    StatusFailed,
			},
			NotifyStatusChange{
				SubmissionID: env.SubmissionID,
				OldStatus:    from,
				NewStatus:    StatusFailed,
			},
		},
	}
}

// StateFromStatus reconstructs a SubmissionState from its persisted
// status value. Used when loading submissions from the database.
func StateFromStatus(status Status) SubmissionState {
	switch status {
	case StatusParsing:
		return &StateParsingDoc{}
	case StatusScreening:
		return &StateScreeningSub{}
	case StatusDeskRejected:
		return &StateDeskRejectedSub{}
	case StatusReviewing:
		return &StateReviewingSub{}
	case StatusCompleted:
		return &StateCompletedSub{}
	case StatusFailed:
		return &StateFailedSub{}
	default:
		return &StateScreeningSub{}
	}
}
