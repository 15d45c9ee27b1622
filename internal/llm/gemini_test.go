package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/review"
)

// TestScreenMissingCredential verifies credential resolution fails the
// call before any request is made. This is the one screen failure that
// does not degrade to a pass verdict.
func TestScreenMissingCredential(t *testing.T) {
	gw := NewGeminiGateway("")

	cfg := config.DefaultConfig()
	cfg.ModelConfig.APIKey = ""

	_, err := gw.Screen(context.Background(), review.ScreenRequest{
		PaperText:  "paper",
		Conference: testConference(),
		Config:     cfg,
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

// TestReviewMissingCredential mirrors the screen check for the review
// stage.
func TestReviewMissingCredential(t *testing.T) {
	gw := NewGeminiGateway("")

	_, err := gw.Review(context.Background(), review.ReviewRequest{
		PaperText:  "paper",
		Conference: testConference(),
		Config:     config.DefaultConfig(),
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

// TestRebuttalEmptyHistory verifies the gateway refuses a dialogue with
// no author turn to respond to.
func TestRebuttalEmptyHistory(t *testing.T) {
	gw := NewGeminiGateway("test-key")

	_, err := gw.Rebuttal(context.Background(), review.RebuttalRequest{
		History: nil,
		Config:  config.DefaultConfig(),
	})
	if err == nil {
		t.Fatal("expected error for empty history")
	}
}

// TestScreenFallbackVerdict pins the degraded verdict the pipeline
// relies on for its fail-open behavior.
func TestScreenFallbackVerdict(t *testing.T) {
	verdict := screenFallback()
	if verdict.IsDeskReject {
		t.Fatal("fallback verdict must not reject")
	}
	if verdict.Reason != ScreenFallbackReason {
		t.Fatalf("unexpected fallback reason %q", verdict.Reason)
	}
}
