package review

// Status tracks where a submission sits in the review pipeline.
type Status string

const (
	// StatusParsing means the uploaded document is still being
	// converted to plain text.
	StatusParsing Status = "parsing"

	// StatusScreening means the desk reject check is in flight.
	StatusScreening Status = "screening"

	// StatusDeskRejected is a terminal state entered when the screen
	// stage rejects the submission outright.
	StatusDeskRejected Status = "desk_rejected"

	// StatusReviewing means the screen passed and the full review is
	// in flight.
	StatusReviewing Status = "reviewing"

	// StatusCompleted is the terminal success state. Rebuttal turns
	// are only accepted in this state.
	StatusCompleted Status = "completed"

	// StatusFailed is the terminal error state.
	StatusFailed Status = "failed"
)

// IsTerminal reports whether no further pipeline stage will run for a
// submission in this state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDeskRejected, StatusCompleted, StatusFailed:
		return true
	}

	return false
}

// String returns the wire representation of the status.
func (s Status) String() string {
	return string(s)
}
