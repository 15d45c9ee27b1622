// Package report renders a submission's review into shareable markdown
// and HTML documents.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/roasbeef/revue/internal/review"
)

// Report holds everything needed to render one submission's review.
type Report struct {
	// Title is the paper title.
	Title string

	// ConferenceName is the display name of the target venue.
	ConferenceName string

	// Status is the submission's lifecycle status.
	Status review.Status

	// Result is the accumulated review. Nil for submissions that
	// failed before any stage completed.
	Result *review.Result

	// Rebuttal is the dialogue transcript, in turn order.
	Rebuttal []review.RebuttalTurn

	// GeneratedAt stamps the rendered document.
	GeneratedAt time.Time
}

// md is the shared markdown converter. GFM enables the ratings table.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Review: %s\n\n", r.Title)
	fmt.Fprintf(&sb, "**Venue:** %s  \n", r.ConferenceName)
	fmt.Fprintf(&sb, "**Status:** %s  \n", r.Status)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if r.Result == nil {
		sb.WriteString("No review was produced for this " +
			"submission.\n")
		return sb.String()
	}

	res := r.Result

	if res.IsDeskReject {
		sb.WriteString("## Desk Reject\n\n")
		fmt.Fprintf(&sb, "%s\n", res.DeskRejectReason)
		r.appendRebuttal(&sb)
		return sb.String()
	}

	writeSection(&sb, "Desk Reject Assessment", res.DeskRejectAssessment)
	writeSection(&sb, "Summary", res.Summary)
	writeSection(&sb, "Strengths", res.Strengths)
	writeSection(&sb, "Weaknesses", res.Weaknesses)
	writeSection(&sb, "Missing Related Work", res.MissingRelatedWork)
	writeSection(&sb, "Questions for Rebuttal", res.QuestionsForRebuttal)

	if res.Ratings != nil {
		sb.WriteString("## Ratings\n\n")
		sb.WriteString("| Criterion | Score |\n")
		sb.WriteString("| --- | ---: |\n")
		fmt.Fprintf(&sb, "| Relevance | %d |\n",
			res.Ratings.Relevance)
		fmt.Fprintf(&sb, "| Novelty | %d |\n", res.Ratings.Novelty)
		fmt.Fprintf(&sb, "| Technical Quality | %d |\n",
			res.Ratings.TechnicalQuality)
		fmt.Fprintf(&sb, "| Presentation | %d |\n",
			res.Ratings.Presentation)
		fmt.Fprintf(&sb, "| Reproducibility | %d |\n",
			res.Ratings.Reproducibility)
		fmt.Fprintf(&sb, "| Confidence | %d |\n",
			res.Ratings.Confidence)
		sb.WriteString("\n")
	}

	if res.EthicsFlag == review.EthicsFlagYes {
		writeSection(&sb, "Ethics Concerns", res.EthicsDescription)
	}

	writeSection(&sb, "Generative AI Analysis", res.GenAIAnalysis)

	if res.FinalDecision != "" {
		fmt.Fprintf(&sb, "## Final Decision\n\n**%s**\n\n",
			res.FinalDecision)
	}

	r.appendRebuttal(&sb)

	return sb.String()
}

// HTML renders the report as a standalone HTML page.
func (r *Report) HTML() ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, htmlShell, html.EscapeString(r.Title),
		body.String())

	return page.Bytes(), nil
}

// appendRebuttal writes the dialogue transcript, if any.
func (r *Report) appendRebuttal(sb *strings.Builder) {
	if len(r.Rebuttal) == 0 {
		return
	}

	sb.WriteString("## Rebuttal Discussion\n\n")
	for _, turn := range r.Rebuttal {
		speaker := "Reviewer"
		if turn.Role == review.RoleUser {
			speaker = "Author"
		}
		fmt.Fprintf(sb, "**%s:** %s\n\n", speaker, turn.Text)
	}
}

// writeSection writes a level-two heading and its body, skipping empty
// sections.
func writeSection(sb *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n%s\n\n", heading, body)
}

const htmlShell = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Review: %s</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem;
       font-family: system-ui, sans-serif; line-height: 1.6; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.8rem; }
</style>
</head>
<body>
%s
</body>
</html>
`
