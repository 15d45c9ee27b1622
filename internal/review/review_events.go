package review

// PipelineEvent is the sealed interface for events that drive the
// submission FSM. All event types must implement the unexported
// isPipelineEvent() method.
type PipelineEvent interface {
	// isPipelineEvent seals the interface to prevent external
	// implementations.
	isPipelineEvent()
}

// Ensure all event types implement PipelineEvent.
func (TextExtractedEvent) isPipelineEvent()    {}
func (ExtractionFailedEvent) isPipelineEvent() {}
func (ScreenPassedEvent) isPipelineEvent()     {}
func (DeskRejectedEvent) isPipelineEvent()     {}
func (ReviewCompletedEvent) isPipelineEvent()  {}
func (PipelineFailedEvent) isPipelineEvent()   {}

// TextExtractedEvent is sent when document parsing produced the plain
// text of the paper.
type TextExtractedEvent struct {
	Text string
}

// ExtractionFailedEvent is sent when the uploaded document could not
// be converted to text.
type ExtractionFailedEvent struct {
	Reason string
}

// ScreenPassedEvent is sent when the desk reject check clears the
// submission for a full review. Reason carries the model's pass note
// for logging only.
type ScreenPassedEvent struct {
	Reason string
}

// DeskRejectedEvent is sent when the desk reject check rejects the
// submission outright.
type DeskRejectedEvent struct {
	Reason string
}

// ReviewCompletedEvent is sent when the full review stage produced a
// structured result.
type ReviewCompletedEvent struct {
	Result *Result
}

// PipelineFailedEvent is sent when a fatal stage error ends the
// pipeline.
type PipelineFailedEvent struct {
	Reason string
}
