package commands

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	cfgReviewerName string
	cfgRole         string
	cfgAffiliation  string
	cfgExpertise    string
	cfgModel        string
	cfgTemperature  float64
	cfgTopK         float64
	cfgTopP         float64
	cfgAPIKey       string
	cfgBaseURL      string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update reviewer settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update reviewer settings",
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Flags().StringVar(
		&cfgReviewerName, "name", "", "Reviewer display name",
	)
	configSetCmd.Flags().StringVar(
		&cfgRole, "role", "", "Reviewer role",
	)
	configSetCmd.Flags().StringVar(
		&cfgAffiliation, "affiliation", "", "Reviewer affiliation",
	)
	configSetCmd.Flags().StringVar(
		&cfgExpertise, "expertise", "", "Reviewer area of expertise",
	)
	configSetCmd.Flags().StringVar(
		&cfgModel, "model", "", "Model name",
	)
	configSetCmd.Flags().Float64Var(
		&cfgTemperature, "temperature", -1, "Sampling temperature",
	)
	configSetCmd.Flags().Float64Var(
		&cfgTopK, "topk", -1, "Top-K sampling cutoff",
	)
	configSetCmd.Flags().Float64Var(
		&cfgTopP, "topp", -1, "Top-P sampling cutoff",
	)
	configSetCmd.Flags().StringVar(
		&cfgAPIKey, "api-key", "", "Gemini API key",
	)
	configSetCmd.Flags().StringVar(
		&cfgBaseURL, "base-url", "", "Alternate API endpoint",
	)

	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	client := getClient()

	var cfg map[string]json.RawMessage
	if err := client.get("/api/v1/config", &cfg); err != nil {
		return err
	}

	return printJSON(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	client := getClient()

	// Fetch-mutate-put so unset flags keep their stored values. The
	// server carries the stored API key over when the payload's key is
	// empty.
	var cfg map[string]any
	if err := client.get("/api/v1/config", &cfg); err != nil {
		return err
	}

	profile, _ := cfg["userProfile"].(map[string]any)
	if profile == nil {
		profile = make(map[string]any)
	}
	model, _ := cfg["modelConfig"].(map[string]any)
	if model == nil {
		model = make(map[string]any)
	}

	setIfFlagged(cmd, "name", profile, "name", cfgReviewerName)
	setIfFlagged(cmd, "role", profile, "role", cfgRole)
	setIfFlagged(cmd, "affiliation", profile, "affiliation", cfgAffiliation)
	setIfFlagged(cmd, "expertise", profile, "expertise", cfgExpertise)

	setIfFlagged(cmd, "model", model, "modelName", cfgModel)
	setIfFlagged(cmd, "temperature", model, "temperature", cfgTemperature)
	setIfFlagged(cmd, "topk", model, "topK", cfgTopK)
	setIfFlagged(cmd, "topp", model, "topP", cfgTopP)
	setIfFlagged(cmd, "api-key", model, "apiKey", cfgAPIKey)
	setIfFlagged(cmd, "base-url", model, "baseUrl", cfgBaseURL)

	cfg["userProfile"] = profile
	cfg["modelConfig"] = model

	err := client.do(http.MethodPut, "/api/v1/config", cfg, nil)
	if err != nil {
		return err
	}

	fmt.Println("Configuration updated")
	return nil
}

// setIfFlagged copies a flag value into the config map only when the
// user set the flag on the command line.
func setIfFlagged(cmd *cobra.Command, flag string, m map[string]any,
	key string, value any) {

	if cmd.Flags().Changed(flag) {
		m[key] = value
	}
}
