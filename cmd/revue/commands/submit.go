package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	submitTitle      string
	submitConference string
	submitWait       bool
)

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Submit a paper for review",
	Long: `Submit a paper for review. PDF files are uploaded for text
extraction; plain text files and stdin are sent as-is.

Examples:
  revue submit paper.pdf --title "My Paper" --conference neurips
  cat paper.txt | revue submit --title "My Paper" --conference icml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(
		&submitTitle, "title", "t", "", "Paper title (required)",
	)
	submitCmd.Flags().StringVarP(
		&submitConference, "conference", "c", "",
		"Target venue id (required, see 'revue conferences')",
	)
	submitCmd.Flags().BoolVarP(
		&submitWait, "wait", "w", false,
		"Block until the pipeline reaches a terminal status",
	)
	submitCmd.MarkFlagRequired("title")
	submitCmd.MarkFlagRequired("conference")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	client := getClient()

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	if len(args) == 1 && strings.EqualFold(
		filepath.Ext(args[0]), ".pdf",
	) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		err = client.upload(
			submitTitle, submitConference,
			filepath.Base(args[0]), data, &created,
		)
		if err != nil {
			return err
		}
	} else {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return fmt.Errorf("no paper text provided")
		}

		err = client.post("/api/v1/submissions", map[string]string{
			"title":        submitTitle,
			"content":      string(data),
			"conferenceId": submitConference,
		}, &created)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Submission %s created (%s)\n", created.ID, created.Status)

	if !submitWait {
		return nil
	}

	return waitForTerminal(client, created.ID)
}

// waitForTerminal polls the submission until the pipeline finishes, then
// prints the outcome.
func waitForTerminal(client *Client, id string) error {
	lastStatus := ""
	for {
		var view submissionView
		err := client.get("/api/v1/submissions/"+id, &view)
		if err != nil {
			return err
		}

		if view.Status != lastStatus {
			fmt.Printf("  status: %s\n", view.Status)
			lastStatus = view.Status
		}

		switch view.Status {
		case "completed":
			if view.Result != nil {
				fmt.Printf("Review complete: %s\n",
					view.Result.FinalDecision)
			}
			return nil

		case "desk_rejected":
			if view.Result != nil {
				fmt.Printf("Desk rejected: %s\n",
					view.Result.DeskRejectReason)
			}
			return nil

		case "failed":
			return fmt.Errorf("review pipeline failed")
		}

		time.Sleep(2 * time.Second)
	}
}
