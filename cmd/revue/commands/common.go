package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/roasbeef/revue/internal/review"
)

// submissionSummary mirrors one dashboard row from the API.
type submissionSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ConferenceID  string `json:"conferenceId"`
	Status        string `json:"status"`
	Summary       string `json:"summary"`
	FinalDecision string `json:"finalDecision"`
	CreatedAt     string `json:"createdAt"`
}

// submissionView mirrors the full submission payload from the API.
type submissionView struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	ConferenceID string                `json:"conferenceId"`
	Status       string                `json:"status"`
	Result       *review.Result        `json:"result"`
	RebuttalChat []review.RebuttalTurn `json:"rebuttalChat"`
	CreatedAt    string                `json:"createdAt"`
	UpdatedAt    string                `json:"updatedAt"`
}

// conferenceView mirrors one venue from the API.
type conferenceView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Description string `json:"description"`
	FocusArea   string `json:"focusArea"`
	CustomRules string `json:"customRules"`
}

// newTabWriter returns a tabwriter on stdout with the CLI's standard
// settings.
func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// shortID returns the copy-pasteable prefix of a submission id shown in
// tables.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// conferenceName resolves a venue id to its display name via the API,
// falling back to the raw id.
func conferenceName(c *Client, id string) string {
	var list struct {
		Conferences []conferenceView `json:"conferences"`
	}
	if err := c.get("/api/v1/conferences", &list); err != nil {
		return id
	}

	// Later entries shadow earlier ones.
	for i := len(list.Conferences) - 1; i >= 0; i-- {
		if list.Conferences[i].ID == id {
			return list.Conferences[i].Name
		}
	}

	return id
}

// resolveSubmissionID expands a unique id prefix to the full submission
// id.
func resolveSubmissionID(c *Client, prefix string) (string, error) {
	var list struct {
		Submissions []submissionSummary `json:"submissions"`
	}
	if err := c.get("/api/v1/submissions", &list); err != nil {
		return "", err
	}

	var matches []string
	for _, s := range list.Submissions {
		if s.ID == prefix {
			return s.ID, nil
		}
		if len(prefix) >= 4 && len(s.ID) > len(prefix) &&
			s.ID[:len(prefix)] == prefix {

			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no submission matching %q", prefix)
	default:
		return "", fmt.Errorf("submission id prefix %q is ambiguous "+
			"(%d matches)", prefix, len(matches))
	}
}

// statusLabel renders a pipeline status for table output.
func statusLabel(status string) string {
	switch status {
	case "desk_rejected":
		return "DESK REJECT"
	case "completed":
		return "COMPLETED"
	case "failed":
		return "FAILED"
	default:
		return fmt.Sprintf("%s...", status)
	}
}
