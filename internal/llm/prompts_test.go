package llm

import (
	"strings"
	"testing"

	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/review"
)

func testConference() conference.Conference {
	return conference.Conference{
		ID:        "neurips",
		Name:      "Conference on Neural Information Processing Systems",
		ShortName: "NeurIPS",
		FocusArea: "Machine Learning, AI, Computational Neuroscience",
	}
}

// TestScreenPrompt verifies the persona, venue, and rules land in the
// desk reject instruction.
func TestScreenPrompt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UserProfile.Name = "Dr. Chen"
	cfg.UserProfile.Affiliation = "ETH Zurich"

	prompt := screenPrompt(testConference(), cfg)

	for _, want := range []string{
		"You are acting as Dr. Chen",
		"at ETH Zurich",
		"Conference on Neural Information Processing Systems (NeurIPS)",
		`"Desk Reject" check`,
		"Do NOT check for double-blind violations",
		defaultReviewRules,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("screen prompt missing %q:\n%s", want, prompt)
		}
	}
}

// TestScreenPromptCustomRules verifies conference rules replace the
// default guideline text.
func TestScreenPromptCustomRules(t *testing.T) {
	conf := testConference()
	conf.CustomRules = "Reject anything without an ablation study."

	prompt := screenPrompt(conf, config.DefaultConfig())

	if !strings.Contains(prompt, conf.CustomRules) {
		t.Fatal("custom rules missing from screen prompt")
	}
	if strings.Contains(prompt, defaultReviewRules) {
		t.Fatal("default rules should be replaced by custom rules")
	}
}

// TestReviewPrompt verifies the style corpus and section skeleton.
func TestReviewPrompt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FewShotExamples = "STYLE MARKER XYZ"

	prompt := reviewPrompt(testConference(), cfg)

	for _, want := range []string{
		"STYLE MARKER XYZ",
		"1. Desk Rejection Assessment",
		"9. GenAI Content Analysis",
		"Provide a final decision (Accept, Weak Accept, Weak Reject, Reject).",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("review prompt missing %q", want)
		}
	}
}

// TestRebuttalSystemPrompt verifies the persona argues from its
// original verdict.
func TestRebuttalSystemPrompt(t *testing.T) {
	req := review.RebuttalRequest{
		PaperTitle:     "Graph Attention Revisited",
		ConferenceName: "NeurIPS",
		InitialReview: &review.Result{
			FinalDecision: review.DecisionWeakReject,
			Weaknesses:    "No baselines beyond 2019.",
		},
		Config: config.DefaultConfig(),
	}

	prompt := rebuttalSystemPrompt(req)

	for _, want := range []string{
		`"Graph Attention Revisited"`,
		`decision of "Weak Reject"`,
		"No baselines beyond 2019.",
		"acknowledge valid points",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("rebuttal prompt missing %q:\n%s",
				want, prompt)
		}
	}
}

// TestPaperTextWrapping pins the stage delimiters and truncation
// limits.
func TestPaperTextWrapping(t *testing.T) {
	short := screenPaperText("body")
	if short != "--- BEGIN PAPER TEXT ---\nbody\n--- END PAPER TEXT ---" {
		t.Fatalf("unexpected screen wrapping: %q", short)
	}

	if got := reviewPaperText("body"); got != "--- PAPER CONTENT ---\nbody" {
		t.Fatalf("unexpected review wrapping: %q", got)
	}

	long := strings.Repeat("x", screenTextLimit+500)
	wrapped := screenPaperText(long)
	if strings.Count(wrapped, "x") != screenTextLimit {
		t.Fatalf("screen text not capped at %d chars",
			screenTextLimit)
	}
}

// TestTruncateText covers the rune-safety of the cap.
func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 100); got != "short" {
		t.Fatalf("short text should pass through, got %q", got)
	}

	// Multibyte text whose byte length exceeds the limit but whose
	// rune length does not must survive intact.
	text := strings.Repeat("\u00e9", 80)
	if got := truncateText(text, 100); got != text {
		t.Fatal("rune count under limit should not be truncated")
	}

	got := truncateText(strings.Repeat("\u00e9", 150), 100)
	if want := strings.Repeat("\u00e9", 100); got != want {
		t.Fatalf("expected 100 runes, got %d", len([]rune(got)))
	}
}

// TestModelNameFallback verifies the default model is used when the
// config leaves it empty.
func TestModelNameFallback(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ModelConfig.ModelName = ""
	if got := modelName(cfg); got != config.DefaultModelName {
		t.Fatalf("expected default model, got %q", got)
	}

	cfg.ModelConfig.ModelName = "gemini-2.5-pro"
	if got := modelName(cfg); got != "gemini-2.5-pro" {
		t.Fatalf("expected override, got %q", got)
	}
}
