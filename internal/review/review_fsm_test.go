package review

import (
	"context"
	"testing"
)

// newTestFSM creates a SubmissionFSM for a plain text submission, which
// enters the pipeline at screening.
func newTestFSM() *SubmissionFSM {
	return NewSubmissionFSM(
		"sub-123", "Graph Attention Revisited", "neurips",
		StatusScreening,
	)
}

// TestFSM_HappyPath tests the full lifecycle:
// screening → reviewing → completed.
func TestFSM_HappyPath(t *testing.T) {
	ctx := context.Background()
	fsm := newTestFSM()

	if fsm.CurrentStatus() != StatusScreening {
		t.Fatalf("expected 'screening', got %q", fsm.CurrentStatus())
	}
	if fsm.IsTerminal() {
		t.Fatal("screening should not be terminal")
	}

	// Screen passes: screening → reviewing.
	outbox, err := fsm.ProcessEvent(ctx, ScreenPassedEvent{
		Reason: "Pass",
	})
	if err != nil {
		t.Fatalf("ScreenPassed failed: %v", err)
	}
	if fsm.CurrentStatus() != StatusReviewing {
		t.Fatalf("expected 'reviewing', got %q", fsm.CurrentStatus())
	}

	assertHasOutboxEvent[PersistStatus](t, outbox)
	assertHasOutboxEvent[NotifyStatusChange](t, outbox)
	assertHasOutboxEvent[RunReviewStage](t, outbox)

	// A passing screen must not write anything into the result.
	for _, evt := range outbox {
		if _, ok := evt.(MergeResult); ok {
			t.Fatal("screen pass should not emit MergeResult")
		}
	}

	// Review completes: reviewing → completed.
	outbox, err = fsm.ProcessEvent(ctx, ReviewCompletedEvent{
		Result: &Result{
			Summary:       "solid contribution",
			FinalDecision: DecisionWeakAccept,
		},
	})
	if err != nil {
		t.Fatalf("ReviewCompleted failed: %v", err)
	}
	if fsm.CurrentStatus() != StatusCompleted {
		t.Fatalf("expected 'completed', got %q", fsm.CurrentStatus())
	}
	if !fsm.IsTerminal() {
		t.Fatal("completed should be terminal")
	}

	assertHasOutboxEvent[MergeResult](t, outbox)
	assertHasOutboxEvent[PersistStatus](t, outbox)
	assertHasOutboxEvent[NotifyStatusChange](t, outbox)
}

// TestFSM_DeskReject tests the early terminal branch:
// screening → desk_rejected.
func TestFSM_DeskReject(t *testing.T) {
	ctx := context.Background()
	fsm := newTestFSM()

	outbox, err := fsm.ProcessEvent(ctx, DeskRejectedEvent{
		Reason: "out of scope for the venue",
	})
	if err != nil {
		t.Fatalf("DeskRejected failed: %v", err)
	}
	if fsm.CurrentStatus() != StatusDeskRejected {
		t.Fatalf("expected 'desk_rejected', got %q",
			fsm.CurrentStatus())
	}
	if !fsm.IsTerminal() {
		t.Fatal("desk_rejected should be terminal")
	}

	merge := assertHasOutboxEvent[MergeResult](t, outbox)
	if !merge.Delta.IsDeskReject {
		t.Fatal("merge delta should mark the desk reject")
	}
	if merge.Delta.DeskRejectReason != "out of scope for the venue" {
		t.Fatalf("unexpected reject reason %q",
			merge.Delta.DeskRejectReason)
	}
	if merge.Delta.Ratings != nil {
		t.Fatal("desk reject delta must not carry ratings")
	}

	// No review stage may be launched.
	for _, evt := range outbox {
		if _, ok := evt.(RunReviewStage); ok {
			t.Fatal("desk reject should not launch the review " +
				"stage")
		}
	}
}

// TestFSM_UploadPath tests the document upload entry:
// parsing → screening.
func TestFSM_UploadPath(t *testing.T) {
	ctx := context.Background()
	fsm := NewSubmissionFSM("sub-9", "Uploaded Paper", "iclr",
		StatusParsing)

	outbox, err := fsm.ProcessEvent(ctx, TextExtractedEvent{
		Text: "[Page 1]\nextracted body",
	})
	if err != nil {
		t.Fatalf("TextExtracted failed: %v", err)
	}
	if fsm.CurrentStatus() != StatusScreening {
		t.Fatalf("expected 'screening', got %q", fsm.CurrentStatus())
	}

	content := assertHasOutboxEvent[PersistContent](t, outbox)
	if content.Text != "[Page 1]\nextracted body" {
		t.Fatalf("unexpected persisted text %q", content.Text)
	}
	assertHasOutboxEvent[RunScreenStage](t, outbox)
}

// TestFSM_FailureBranches tests the fatal error edge from every
// non-terminal state.
func TestFSM_FailureBranches(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		start Status
		event PipelineEvent
	}{
		{
			name:  "parsing",
			start: StatusParsing,
			event: ExtractionFailedEvent{Reason: "bad pdf"},
		},
		{
			name:  "screening",
			start: StatusScreening,
			event: PipelineFailedEvent{Reason: "no credential"},
		},
		{
			name:  "reviewing",
			start: StatusReviewing,
			event: PipelineFailedEvent{Reason: "api error"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsm := NewSubmissionFSM(
				"sub-1", "t", "acl", tc.start,
			)

			outbox, err := fsm.ProcessEvent(ctx, tc.event)
			if err != nil {
				t.Fatalf("failure event rejected: %v", err)
			}
			if fsm.CurrentStatus() != StatusFailed {
				t.Fatalf("expected 'failed', got %q",
					fsm.CurrentStatus())
			}
			if !fsm.IsTerminal() {
				t.Fatal("failed should be terminal")
			}

			assertHasOutboxEvent[PersistStatus](t, outbox)
			assertHasOutboxEvent[NotifyStatusChange](t, outbox)

			// Failures never write partial results.
			for _, evt := range outbox {
				if _, ok := evt.(MergeResult); ok {
					t.Fatal("failure should not emit " +
						"MergeResult")
				}
			}
		})
	}
}

// TestFSM_TerminalStatesRejectEvents tests that terminal states reject
// all events.
func TestFSM_TerminalStatesRejectEvents(t *testing.T) {
	ctx := context.Background()

	terminalStates := []struct {
		name  string
		state SubmissionState
	}{
		{"desk_rejected", &StateDeskRejectedSub{Reason: "scope"}},
		{"completed", &StateCompletedSub{}},
		{"failed", &StateFailedSub{}},
	}

	events := []PipelineEvent{
		TextExtractedEvent{Text: "x"},
		ExtractionFailedEvent{Reason: "x"},
		ScreenPassedEvent{Reason: "Pass"},
		DeskRejectedEvent{Reason: "x"},
		ReviewCompletedEvent{Result: &Result{}},
		PipelineFailedEvent{Reason: "x"},
	}

	env := &SubmissionEnvironment{SubmissionID: "sub-1"}

	for _, ts := range terminalStates {
		for _, evt := range events {
			t.Run(ts.name, func(t *testing.T) {
				_, err := ts.state.ProcessEvent(ctx, evt, env)
				if err == nil {
					t.Fatalf("expected error for %T in "+
						"terminal state %s",
						evt, ts.name)
				}
			})
		}
	}
}

// TestFSM_InvalidTransitions tests that out-of-order events produce
// errors and leave the state untouched.
func TestFSM_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		state SubmissionState
		event PipelineEvent
	}{
		{
			name:  "review completion during parsing",
			state: &StateParsingDoc{},
			event: ReviewCompletedEvent{Result: &Result{}},
		},
		{
			name:  "screen pass during parsing",
			state: &StateParsingDoc{},
			event: ScreenPassedEvent{Reason: "Pass"},
		},
		{
			name:  "text extraction during screening",
			state: &StateScreeningSub{},
			event: TextExtractedEvent{Text: "x"},
		},
		{
			name:  "review completion during screening",
			state: &StateScreeningSub{},
			event: ReviewCompletedEvent{Result: &Result{}},
		},
		{
			name:  "screen pass during reviewing",
			state: &StateReviewingSub{},
			event: ScreenPassedEvent{Reason: "Pass"},
		},
		{
			name:  "desk reject during reviewing",
			state: &StateReviewingSub{},
			event: DeskRejectedEvent{Reason: "x"},
		},
	}

	env := &SubmissionEnvironment{SubmissionID: "sub-1"}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.state.ProcessEvent(ctx, tc.event, env)
			if err == nil {
				t.Fatalf("expected error for %T in state %s",
					tc.event, tc.state.Status())
			}
		})
	}
}

// TestFSM_FromDB tests reconstructing an FSM from a persisted status.
func TestFSM_FromDB(t *testing.T) {
	statuses := []Status{
		StatusParsing, StatusScreening, StatusDeskRejected,
		StatusReviewing, StatusCompleted, StatusFailed,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			fsm := NewSubmissionFSMFromDB(
				"sub-1", "title", "cvpr", string(status),
			)
			if fsm.CurrentStatus() != status {
				t.Fatalf("expected status %q, got %q",
					status, fsm.CurrentStatus())
			}
		})
	}
}

// TestFSM_OutboxFieldValues verifies outbox events carry the right
// submission id and status values.
func TestFSM_OutboxFieldValues(t *testing.T) {
	ctx := context.Background()
	fsm := NewSubmissionFSM("sub-42", "t", "kdd", StatusScreening)

	outbox, err := fsm.ProcessEvent(ctx, ScreenPassedEvent{
		Reason: "Pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	persist := assertHasOutboxEvent[PersistStatus](t, outbox)
	if persist.SubmissionID != "sub-42" {
		t.Fatalf("expected SubmissionID 'sub-42', got %q",
			persist.SubmissionID)
	}
	if persist.NewStatus != StatusReviewing {
		t.Fatalf("expected NewStatus 'reviewing', got %q",
			persist.NewStatus)
	}

	notify := assertHasOutboxEvent[NotifyStatusChange](t, outbox)
	if notify.OldStatus != StatusScreening ||
		notify.NewStatus != StatusReviewing {

		t.Fatalf("unexpected notify transition %q -> %q",
			notify.OldStatus, notify.NewStatus)
	}
}

// assertHasOutboxEvent fails the test unless the outbox contains an
// event of type T, and returns the first match.
func assertHasOutboxEvent[T OutboxEvent](t *testing.T,
	outbox []OutboxEvent,
) T {
	t.Helper()

	for _, evt := range outbox {
		if typed, ok := evt.(T); ok {
			return typed
		}
	}

	var zero T
	t.Fatalf("outbox missing event of type %T", zero)

	return zero
}
