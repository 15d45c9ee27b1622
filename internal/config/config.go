// Package config holds the process-wide, user-editable settings: the
// reviewer persona, the style-exemplar corpus, user-defined venues, and the
// model parameters used for every LLM call.
package config

import (
	"fmt"
	"time"

	"github.com/roasbeef/revue/internal/conference"
)

// UserProfile is the reviewer persona injected verbatim into every prompt.
type UserProfile struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Affiliation string `json:"affiliation"`
	Expertise   string `json:"expertise"`
}

// ModelConfig holds the model selection and sampling parameters for LLM
// calls. APIKey and BaseURL are optional overrides; when empty the process
// default credential and endpoint are used.
type ModelConfig struct {
	ModelName   string  `json:"modelName"`
	APIKey      string  `json:"apiKey,omitempty"`
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"topK"`
	TopP        float64 `json:"topP"`
	BaseURL     string  `json:"baseUrl,omitempty"`
}

// AppConfig is the effective application configuration. It is always fully
// populated: snapshots loaded from disk are merged field-by-field over
// DefaultConfig before use.
type AppConfig struct {
	UserProfile       UserProfile             `json:"userProfile"`
	FewShotExamples   string                  `json:"fewShotExamples"`
	CustomConferences []conference.Conference `json:"customConferences"`
	ModelConfig       ModelConfig             `json:"modelConfig"`
}

// DefaultFewShot is the seed style exemplar used until the user teaches the
// reviewer their own tone.
const DefaultFewShot = `Example of a good review tone:
"While the proposed method for graph neural networks is theoretically interesting, the experimental validation lacks comparison with strong baselines like GraphSAGE or GAT on large-scale datasets. The novelty is marginal as it primarily combines existing attention mechanisms."
`

// DefaultModelName is the model used when no explicit selection was made.
const DefaultModelName = "gemini-2.5-flash"

// DefaultConfig returns the hardcoded defaults that snapshots are merged
// over.
func DefaultConfig() AppConfig {
	return AppConfig{
		UserProfile: UserProfile{
			Name:        "Reviewer",
			Role:        "Senior Area Chair",
			Affiliation: "Top Tier University",
			Expertise:   "Machine Learning, Deep Learning, AI",
		},
		FewShotExamples:   DefaultFewShot,
		CustomConferences: []conference.Conference{},
		ModelConfig: ModelConfig{
			ModelName:   DefaultModelName,
			Temperature: 0.4,
			TopK:        40,
			TopP:        0.95,
		},
	}
}

// AppendStyleExample appends a learned example to the style corpus with a
// timestamped marker. The corpus is append-only and never pruned.
func AppendStyleExample(corpus, example string, now time.Time) string {
	return corpus + fmt.Sprintf(
		"\n\n[User Example added %s]:\n%q",
		now.Format("2006-01-02"), example,
	)
}
