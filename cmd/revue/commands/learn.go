package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn [example]",
	Short: "Teach the reviewer your writing style",
	Long: `Record an example of your own review writing. Stored examples
steer the tone and structure of generated reviews. With no argument the
example is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	var example string
	if len(args) == 1 {
		example = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading example from stdin: %w", err)
		}
		example = string(data)
	}

	example = strings.TrimSpace(example)
	if example == "" {
		return fmt.Errorf("example text is empty")
	}

	client := getClient()
	err := client.post("/api/v1/config/style", map[string]string{
		"example": example,
	}, nil)
	if err != nil {
		return err
	}

	fmt.Println("Style example recorded")
	return nil
}
