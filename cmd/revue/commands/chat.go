package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <id> <message...>",
	Short: "Send a rebuttal message to the reviewer",
	Long: `Send a rebuttal message for a completed review and print the
reviewer's reply. Each call appends one author turn and one reviewer
turn to the dialogue.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	client := getClient()

	id, err := resolveSubmissionID(client, args[0])
	if err != nil {
		return err
	}
	message := strings.Join(args[1:], " ")

	var resp struct {
		Reply string `json:"reply"`
		Chat  []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"chat"`
	}
	err = client.post(
		"/api/v1/submissions/"+id+"/rebuttal",
		map[string]string{"message": message}, &resp,
	)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(resp)
	}

	fmt.Printf("Reviewer: %s\n", resp.Reply)
	return nil
}
