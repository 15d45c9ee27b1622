package llm

import (
	"fmt"

	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/review"
)

// Character budgets for paper text sent to the model. The screen stage
// only needs enough text to judge scope and coherence; the full review
// gets a larger window.
const (
	screenTextLimit = 10_000
	reviewTextLimit = 30_000
)

// defaultReviewRules is used when a conference carries no custom
// guidelines.
const defaultReviewRules = "Review strictly based on technical content."

const screenPromptTemplate = `You are acting as %s, a %s at %s.
Your expertise includes: %s.

You are evaluating a submission for %s (%s).
Your task is to perform a strict "Desk Reject" check.

Conference Focus Area: %s

Custom Rules/Guidelines:
%s

Criteria for Desk Reject:
1. Significantly out of scope for the conference.
2. Text is gibberish or too short to be a paper.

IMPORTANT: Do NOT check for double-blind violations. Author names and affiliations are ALLOWED in this review process. Do NOT reject based on anonymity violations.

Analyze the paper text provided below.`

const reviewPromptTemplate = `You are acting as %s, a %s at %s.
Your expertise is: %s.

Conduct a full technical review of the paper below for %s.

Reference Style Guide & Few-Shot Examples (Use this tone/style):
%s

Structure your review EXACTLY with the following sections:
1. Desk Rejection Assessment (Briefly confirm Paper Length, Topic Compatibility, Minimum Quality. IGNORE Anonymity/Double-blind checks).
2. Paper Summary
3. Paper Strengths (Detailed discussion)
4. Paper Weaknesses (Detailed discussion)
5. Potentially Missing Related Work
6. Questions and Suggestions for Rebuttal
7. Ratings (1-10 Scale for Relevance, Novelty, Technical Quality, Presentation, Reproducibility, Confidence)
8. Ethics Review (Flag and Description)
9. GenAI Content Analysis (Assess if the text appears to be LLM generated)

Provide a final decision (Accept, Weak Accept, Weak Reject, Reject).`

const rebuttalPromptTemplate = `You are acting as %s, a %s.
You have reviewed the paper "%s" for %s and gave a decision of "%s".

Your main criticisms were:
%s

The author is engaging in a rebuttal. Respond to their arguments.
Defend your position if they don't provide evidence, but acknowledge valid points.
Keep responses professional, academic, and concise.`

// screenPrompt builds the desk reject instruction for the reviewer
// persona in the config.
func screenPrompt(conf conference.Conference, cfg config.AppConfig) string {
	rules := conf.CustomRules
	if rules == "" {
		rules = defaultReviewRules
	}

	profile := cfg.UserProfile

	return fmt.Sprintf(screenPromptTemplate,
		profile.Name, profile.Role, profile.Affiliation,
		profile.Expertise, conf.Name, conf.ShortName,
		conf.FocusArea, rules,
	)
}

// screenPaperText wraps the truncated paper body in the screen stage's
// delimiters.
func screenPaperText(paperText string) string {
	return fmt.Sprintf("--- BEGIN PAPER TEXT ---\n%s\n--- END PAPER TEXT ---",
		truncateText(paperText, screenTextLimit))
}

// reviewPrompt builds the full review instruction, including the
// learned style corpus.
func reviewPrompt(conf conference.Conference, cfg config.AppConfig) string {
	profile := cfg.UserProfile

	return fmt.Sprintf(reviewPromptTemplate,
		profile.Name, profile.Role, profile.Affiliation,
		profile.Expertise, conf.Name, cfg.FewShotExamples,
	)
}

// reviewPaperText wraps the truncated paper body in the review stage's
// delimiter.
func reviewPaperText(paperText string) string {
	return fmt.Sprintf("--- PAPER CONTENT ---\n%s",
		truncateText(paperText, reviewTextLimit))
}

// rebuttalSystemPrompt builds the system instruction anchoring the
// reviewer persona to its original verdict.
func rebuttalSystemPrompt(req review.RebuttalRequest) string {
	profile := req.Config.UserProfile

	var decision, weaknesses string
	if req.InitialReview != nil {
		decision = req.InitialReview.FinalDecision
		weaknesses = req.InitialReview.Weaknesses
	}

	return fmt.Sprintf(rebuttalPromptTemplate,
		profile.Name, profile.Role, req.PaperTitle,
		req.ConferenceName, decision, weaknesses,
	)
}

// truncateText caps text at limit characters without splitting a rune.
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit])
}
