package review

// OutboxEvent is the sealed interface for events emitted by the
// submission FSM to the service layer. These events trigger side
// effects like database persistence, WebSocket notifications, and the
// launch of the next pipeline stage.
type OutboxEvent interface {
	// isOutboxEvent seals the interface to prevent external
	// implementations.
	isOutboxEvent()
}

// Ensure all outbox event types implement OutboxEvent.
func (PersistStatus) isOutboxEvent()      {}
func (PersistContent) isOutboxEvent()     {}
func (MergeResult) isOutboxEvent()        {}
func (NotifyStatusChange) isOutboxEvent() {}
func (RunScreenStage) isOutboxEvent()     {}
func (RunReviewStage) isOutboxEvent()     {}

// PersistStatus requests database persistence of the new submission
// status.
type PersistStatus struct {
	SubmissionID string
	NewStatus    Status
}

// PersistContent requests database persistence of the extracted paper
// text.
type PersistContent struct {
	SubmissionID string
	Text         string
}

// MergeResult requests a shallow merge of a result delta over the
// submission's stored result snapshot.
type MergeResult struct {
	SubmissionID string
	Delta        *Result
}

// NotifyStatusChange notifies subscribers of a submission status
// change for real-time UI updates via WebSocket.
type NotifyStatusChange struct {
	SubmissionID string
	OldStatus    Status
	NewStatus    Status
}

// RunScreenStage requests the service to launch the desk reject check
// for the submission.
type RunScreenStage struct {
	SubmissionID string
}

// RunReviewStage requests the service to launch the full review stage
// for the submission.
type RunReviewStage struct {
	SubmissionID string
}
