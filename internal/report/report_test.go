package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roasbeef/revue/internal/review"
)

func sampleReport() *Report {
	return &Report{
		Title:          "Sparse Mixture Routing at Scale",
		ConferenceName: "NeurIPS (Conference on Neural Information Processing Systems)",
		Status:         review.StatusCompleted,
		Result: &review.Result{
			DeskRejectAssessment: "Within page limits, anonymized.",
			Summary:              "Studies router collapse under load skew.",
			Strengths:            "Strong ablations.",
			Weaknesses:           "No comparison against Switch-C.",
			MissingRelatedWork:   "Shazeer et al. 2017.",
			QuestionsForRebuttal: "How were experts initialized?",
			Ratings: &review.Ratings{
				Relevance:        8,
				Novelty:          6,
				TechnicalQuality: 7,
				Presentation:     7,
				Reproducibility:  5,
				Confidence:       4,
			},
			EthicsFlag:    review.EthicsFlagNo,
			GenAIAnalysis: "Appears human written.",
			FinalDecision: review.DecisionWeakAccept,
		},
		Rebuttal: []review.RebuttalTurn{
			{Role: review.RoleUser, Text: "Switch-C is concurrent work."},
			{Role: review.RoleModel, Text: "Concurrent work still merits discussion."},
		},
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestMarkdownFullReview(t *testing.T) {
	t.Parallel()

	out := sampleReport().Markdown()

	require.Contains(t, out, "# Review: Sparse Mixture Routing at Scale")
	require.Contains(t, out, "## Summary")
	require.Contains(t, out, "| Relevance | 8 |")
	require.Contains(t, out, "**Weak Accept**")
	require.Contains(t, out, "**Author:** Switch-C is concurrent work.")
	require.Contains(t, out, "**Reviewer:** Concurrent work")

	// Ethics section only appears when flagged.
	require.NotContains(t, out, "## Ethics Concerns")
}

func TestMarkdownDeskReject(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Status = review.StatusDeskRejected
	r.Result = &review.Result{
		IsDeskReject:     true,
		DeskRejectReason: "Out of scope for this venue.",
	}
	r.Rebuttal = nil

	out := r.Markdown()
	require.Contains(t, out, "## Desk Reject")
	require.Contains(t, out, "Out of scope for this venue.")
	require.NotContains(t, out, "## Summary")
	require.NotContains(t, out, "## Ratings")
}

func TestMarkdownEthicsFlagged(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Result.EthicsFlag = review.EthicsFlagYes
	r.Result.EthicsDescription = "Dataset scraped without consent."

	out := r.Markdown()
	require.Contains(t, out, "## Ethics Concerns")
	require.Contains(t, out, "Dataset scraped without consent.")
}

func TestMarkdownNoResult(t *testing.T) {
	t.Parallel()

	r := &Report{
		Title:          "Failed Run",
		ConferenceName: "ICML",
		Status:         review.StatusFailed,
		GeneratedAt:    time.Now(),
	}

	out := r.Markdown()
	require.Contains(t, out, "No review was produced")
}

func TestHTMLEscapesTitleAndRendersTable(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Title = `Routing <at> Scale & Beyond`

	page, err := r.HTML()
	require.NoError(t, err)

	out := string(page)
	require.Contains(t, out,
		"<title>Review: Routing &lt;at&gt; Scale &amp; Beyond</title>")
	require.Contains(t, out, "<table>")
	require.True(t, strings.HasPrefix(out, "<!doctype html>"))
}
