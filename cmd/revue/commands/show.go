package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roasbeef/revue/internal/report"
	"github.com/roasbeef/revue/internal/review"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a submission's review",
	Long: `Show a submission's review as markdown. Accepts a unique id
prefix as printed by 'revue list'.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	client := getClient()

	id, err := resolveSubmissionID(client, args[0])
	if err != nil {
		return err
	}

	var view submissionView
	if err := client.get("/api/v1/submissions/"+id, &view); err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(view)
	}

	rep := &report.Report{
		Title:          view.Title,
		ConferenceName: conferenceName(client, view.ConferenceID),
		Status:         review.Status(view.Status),
		Result:         view.Result,
		Rebuttal:       view.RebuttalChat,
		GeneratedAt:    time.Now(),
	}
	fmt.Print(rep.Markdown())

	return nil
}
