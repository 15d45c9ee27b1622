package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, newest first",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	client := getClient()

	var list struct {
		Submissions []submissionSummary `json:"submissions"`
	}
	if err := client.get("/api/v1/submissions", &list); err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(list.Submissions)
	}

	if len(list.Submissions) == 0 {
		fmt.Println("No submissions yet. Try 'revue submit'.")
		return nil
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tTITLE\tVENUE\tSTATUS\tDECISION")
	for _, s := range list.Submissions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(s.ID),
			truncate(s.Title, 40),
			s.ConferenceID,
			statusLabel(s.Status),
			s.FinalDecision,
		)
	}

	return w.Flush()
}
