package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submission and its dialogue",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client := getClient()

	id, err := resolveSubmissionID(client, args[0])
	if err != nil {
		return err
	}

	err = client.do(http.MethodDelete, "/api/v1/submissions/"+id,
		nil, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted submission %s\n", id)
	return nil
}
