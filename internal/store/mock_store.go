package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Storage implementation used in tests. All
// methods are safe for concurrent use.
type MockStore struct {
	mu sync.RWMutex

	submissions map[string]*Submission
	rebuttals   map[string][]*RebuttalMessage
	nextMsgID   int64
	configData  []byte
}

// A compile time assertion that MockStore implements Storage.
var _ Storage = (*MockStore)(nil)

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		submissions: make(map[string]*Submission),
		rebuttals:   make(map[string][]*RebuttalMessage),
	}
}

// CreateSubmission inserts a new submission record.
func (m *MockStore) CreateSubmission(_ context.Context,
	params CreateSubmissionParams,
) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.submissions[params.ID]; exists {
		return nil, fmt.Errorf("submission %s already exists",
			params.ID)
	}

	now := time.Now().UTC()
	sub := &Submission{
		ID:           params.ID,
		Title:        params.Title,
		Content:      params.Content,
		ConferenceID: params.ConferenceID,
		Status:       params.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.submissions[params.ID] = sub

	return copySubmission(sub), nil
}

// GetSubmission fetches a submission by id.
func (m *MockStore) GetSubmission(_ context.Context,
	id string,
) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copySubmission(sub), nil
}

// ListSubmissions returns all submissions, newest first.
func (m *MockStore) ListSubmissions(_ context.Context) ([]*Submission,
	error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := make([]*Submission, 0, len(m.submissions))
	for _, sub := range m.submissions {
		subs = append(subs, copySubmission(sub))
	}

	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.After(subs[j].CreatedAt)
		}
		return subs[i].ID > subs[j].ID
	})

	return subs, nil
}

// UpdateSubmissionStatus sets the lifecycle status of a submission.
func (m *MockStore) UpdateSubmissionStatus(_ context.Context,
	id, status string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.submissions[id]
	if !ok {
		return ErrNotFound
	}

	sub.Status = status
	sub.UpdatedAt = time.Now().UTC()

	return nil
}

// UpdateSubmissionContent replaces the paper text of a submission.
func (m *MockStore) UpdateSubmissionContent(_ context.Context,
	id, content string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.submissions[id]
	if !ok {
		return ErrNotFound
	}

	sub.Content = content
	sub.UpdatedAt = time.Now().UTC()

	return nil
}

// UpdateSubmissionResult replaces the accumulated result snapshot.
func (m *MockStore) UpdateSubmissionResult(_ context.Context, id string,
	result []byte,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.submissions[id]
	if !ok {
		return ErrNotFound
	}

	sub.Result = append([]byte(nil), result...)
	sub.UpdatedAt = time.Now().UTC()

	return nil
}

// DeleteSubmission removes a submission and its dialogue turns.
func (m *MockStore) DeleteSubmission(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[id]; !ok {
		return ErrNotFound
	}

	delete(m.submissions, id)
	delete(m.rebuttals, id)

	return nil
}

// AppendRebuttalMessage appends one dialogue turn.
func (m *MockStore) AppendRebuttalMessage(_ context.Context,
	params AppendRebuttalMessageParams,
) (*RebuttalMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[params.SubmissionID]; !ok {
		return nil, ErrNotFound
	}

	m.nextMsgID++
	msg := &RebuttalMessage{
		ID:           m.nextMsgID,
		SubmissionID: params.SubmissionID,
		Role:         params.Role,
		Text:         params.Text,
		CreatedAt:    time.Now().UTC(),
	}
	m.rebuttals[params.SubmissionID] = append(
		m.rebuttals[params.SubmissionID], msg,
	)

	out := *msg
	return &out, nil
}

// ListRebuttalMessages returns a submission's dialogue turns in append
// order.
func (m *MockStore) ListRebuttalMessages(_ context.Context,
	submissionID string,
) ([]*RebuttalMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.rebuttals[submissionID]
	out := make([]*RebuttalMessage, len(msgs))
	for i, msg := range msgs {
		copied := *msg
		out[i] = &copied
	}

	return out, nil
}

// GetAppConfig returns the persisted config snapshot.
func (m *MockStore) GetAppConfig(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.configData == nil {
		return nil, ErrNotFound
	}

	return append([]byte(nil), m.configData...), nil
}

// SetAppConfig overwrites the config snapshot in full.
func (m *MockStore) SetAppConfig(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configData = append([]byte(nil), data...)

	return nil
}

// Close implements Storage.
func (m *MockStore) Close() error {
	return nil
}

// copySubmission returns a defensive copy so callers never share the
// store's internal record.
func copySubmission(sub *Submission) *Submission {
	out := *sub
	out.Result = append([]byte(nil), sub.Result...)
	if sub.Result == nil {
		out.Result = nil
	}

	return &out
}
