// Package store defines the persistence interfaces for submissions,
// rebuttal dialogue turns, and the app config snapshot, along with the
// SQLite-backed and in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Submission is one user-initiated review job. Result holds the accumulated
// ReviewResult as a JSON snapshot; it is nil until a pipeline stage has
// completed and is only ever replaced by a superset of itself.
type Submission struct {
	ID           string
	Title        string
	Content      string
	ConferenceID string
	Status       string
	Result       []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RebuttalMessage is one turn in a submission's rebuttal dialogue.
type RebuttalMessage struct {
	ID           int64
	SubmissionID string
	Role         string
	Text         string
	CreatedAt    time.Time
}

// CreateSubmissionParams holds the fields for creating a submission.
type CreateSubmissionParams struct {
	ID           string
	Title        string
	Content      string
	ConferenceID string
	Status       string
}

// AppendRebuttalMessageParams holds the fields for appending a dialogue
// turn.
type AppendRebuttalMessageParams struct {
	SubmissionID string
	Role         string
	Text         string
}

// SubmissionStore provides access to the submission collection. Writers are
// expected to be serialized by the submission service actor; the store only
// guarantees per-statement atomicity.
type SubmissionStore interface {
	// CreateSubmission inserts a new submission record.
	CreateSubmission(ctx context.Context,
		params CreateSubmissionParams) (*Submission, error)

	// GetSubmission fetches a submission by id.
	GetSubmission(ctx context.Context, id string) (*Submission, error)

	// ListSubmissions returns all submissions, newest first.
	ListSubmissions(ctx context.Context) ([]*Submission, error)

	// UpdateSubmissionStatus sets the lifecycle status of a submission.
	UpdateSubmissionStatus(ctx context.Context, id, status string) error

	// UpdateSubmissionContent replaces the paper text, used when document
	// parsing completes.
	UpdateSubmissionContent(ctx context.Context, id, content string) error

	// UpdateSubmissionResult replaces the accumulated result snapshot.
	UpdateSubmissionResult(ctx context.Context, id string,
		result []byte) error

	// DeleteSubmission removes a submission and its dialogue turns. Only
	// explicit user action reaches this; the pipeline never deletes.
	DeleteSubmission(ctx context.Context, id string) error
}

// RebuttalStore provides access to the append-only rebuttal dialogue.
type RebuttalStore interface {
	// AppendRebuttalMessage appends one dialogue turn.
	AppendRebuttalMessage(ctx context.Context,
		params AppendRebuttalMessageParams) (*RebuttalMessage, error)

	// ListRebuttalMessages returns a submission's dialogue turns in
	// append order.
	ListRebuttalMessages(ctx context.Context,
		submissionID string) ([]*RebuttalMessage, error)
}

// ConfigStore persists the app config as a single opaque snapshot.
type ConfigStore interface {
	// GetAppConfig returns the persisted snapshot, or ErrNotFound when no
	// snapshot has been written yet.
	GetAppConfig(ctx context.Context) ([]byte, error)

	// SetAppConfig overwrites the snapshot in full.
	SetAppConfig(ctx context.Context, data []byte) error
}

// Storage combines all store interfaces into the single dependency handed to
// the services.
type Storage interface {
	SubmissionStore
	RebuttalStore
	ConfigStore

	// Close releases the underlying database resources.
	Close() error
}
