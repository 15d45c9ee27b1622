package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	confID          string
	confName        string
	confShortName   string
	confDescription string
	confFocus       string
	confRules       string
)

var conferencesCmd = &cobra.Command{
	Use:   "conferences",
	Short: "List available review venues",
	RunE:  runConferences,
}

var conferencesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom review venue",
	Long: `Add a custom review venue. Custom venues with the id of a
built-in venue shadow the built-in definition.`,
	RunE: runConferencesAdd,
}

func init() {
	conferencesAddCmd.Flags().StringVar(
		&confID, "id", "", "Venue id (required)",
	)
	conferencesAddCmd.Flags().StringVar(
		&confName, "name", "", "Display name (required)",
	)
	conferencesAddCmd.Flags().StringVar(
		&confShortName, "short", "", "Abbreviation",
	)
	conferencesAddCmd.Flags().StringVar(
		&confDescription, "description", "", "One-line description",
	)
	conferencesAddCmd.Flags().StringVar(
		&confFocus, "focus", "", "Topical focus area",
	)
	conferencesAddCmd.Flags().StringVar(
		&confRules, "rules", "", "Custom screening rules",
	)
	conferencesAddCmd.MarkFlagRequired("id")
	conferencesAddCmd.MarkFlagRequired("name")

	conferencesCmd.AddCommand(conferencesAddCmd)
}

func runConferences(cmd *cobra.Command, args []string) error {
	client := getClient()

	var list struct {
		Conferences []conferenceView `json:"conferences"`
	}
	if err := client.get("/api/v1/conferences", &list); err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(list.Conferences)
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tNAME\tFOCUS")
	for _, c := range list.Conferences {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			c.ID, c.Name, truncate(c.FocusArea, 60))
	}

	return w.Flush()
}

func runConferencesAdd(cmd *cobra.Command, args []string) error {
	client := getClient()

	err := client.post("/api/v1/conferences", map[string]string{
		"id":          confID,
		"name":        confName,
		"shortName":   confShortName,
		"description": confDescription,
		"focusArea":   confFocus,
		"customRules": confRules,
	}, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Added venue %s\n", confID)
	return nil
}
