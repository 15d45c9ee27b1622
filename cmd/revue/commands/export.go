package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <submission-id>",
	Short: "Export a finished review",
	Long: `Export a finished review as a Markdown or HTML document. The
report is written to stdout unless --output names a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(
		&exportFormat, "export-format", "e", "markdown",
		"Report format (markdown or html)",
	)
	exportCmd.Flags().StringVarP(
		&exportOutput, "output", "o", "",
		"Write the report to this file instead of stdout",
	)
}

func runExport(cmd *cobra.Command, args []string) error {
	client := getClient()

	id, err := resolveSubmissionID(client, args[0])
	if err != nil {
		return err
	}

	switch exportFormat {
	case "markdown", "md", "html":
	default:
		return fmt.Errorf("unknown format %q, want markdown or html",
			exportFormat)
	}

	path := fmt.Sprintf("/api/v1/submissions/%s/export?format=%s",
		id, exportFormat)
	data, err := client.download(path)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s report to %s\n",
		exportFormat, exportOutput)
	return nil
}
