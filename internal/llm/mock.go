package llm

import (
	"context"
	"errors"
	"sync"

	"github.com/roasbeef/revue/internal/review"
)

// MockGateway is a configurable in-memory Gateway for tests. Each stage
// delegates to its function field when set and records how often it was
// called.
type MockGateway struct {
	mu sync.Mutex

	ScreenFunc func(ctx context.Context,
		req review.ScreenRequest) (*review.ScreenVerdict, error)
	ReviewFunc func(ctx context.Context,
		req review.ReviewRequest) (*review.Result, error)
	RebuttalFunc func(ctx context.Context,
		req review.RebuttalRequest) (string, error)

	ScreenCalls   int
	ReviewCalls   int
	RebuttalCalls int
}

// Compile-time check that MockGateway satisfies the gateway contract.
var _ review.Gateway = (*MockGateway)(nil)

// Screen delegates to ScreenFunc, defaulting to a pass verdict.
func (m *MockGateway) Screen(ctx context.Context,
	req review.ScreenRequest,
) (*review.ScreenVerdict, error) {
	m.mu.Lock()
	m.ScreenCalls++
	m.mu.Unlock()

	if m.ScreenFunc != nil {
		return m.ScreenFunc(ctx, req)
	}

	return &review.ScreenVerdict{IsDeskReject: false, Reason: "Pass"},
		nil
}

// Review delegates to ReviewFunc, defaulting to a minimal valid result.
func (m *MockGateway) Review(ctx context.Context,
	req review.ReviewRequest,
) (*review.Result, error) {
	m.mu.Lock()
	m.ReviewCalls++
	m.mu.Unlock()

	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, req)
	}

	return &review.Result{
		DeskRejectAssessment: "length ok, on topic, anonymity " +
			"check skipped",
		Summary:       "mock summary",
		Strengths:     "mock strengths",
		Weaknesses:    "mock weaknesses",
		Ratings:       &review.Ratings{Relevance: 7, Confidence: 4},
		FinalDecision: review.DecisionWeakAccept,
		EthicsFlag:    review.EthicsFlagNo,
		GenAIAnalysis: "appears human written",
		RawOutput:     `{"summary":"mock summary"}`,
	}, nil
}

// Rebuttal delegates to RebuttalFunc, defaulting to a canned reply.
func (m *MockGateway) Rebuttal(ctx context.Context,
	req review.RebuttalRequest,
) (string, error) {
	m.mu.Lock()
	m.RebuttalCalls++
	m.mu.Unlock()

	if m.RebuttalFunc != nil {
		return m.RebuttalFunc(ctx, req)
	}

	if len(req.History) == 0 {
		return "", errors.New("rebuttal history is empty")
	}

	return "The objection stands without new evidence.", nil
}
