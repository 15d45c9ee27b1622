package config

import (
	"encoding/json"
	"fmt"

	"github.com/roasbeef/revue/internal/conference"
)

// Snapshot mirrors AppConfig with pointer fields so a decoded snapshot can
// distinguish absent fields from zero values. Snapshots written by older
// builds may be missing newly introduced fields; merging over defaults keeps
// those fields at their hardcoded values while present fields are preserved
// verbatim.
type Snapshot struct {
	UserProfile       *UserProfileSnapshot     `json:"userProfile,omitempty"`
	FewShotExamples   *string                  `json:"fewShotExamples,omitempty"`
	CustomConferences *[]conference.Conference `json:"customConferences,omitempty"`
	ModelConfig       *ModelConfigSnapshot     `json:"modelConfig,omitempty"`
}

// UserProfileSnapshot is the optional-field form of UserProfile.
type UserProfileSnapshot struct {
	Name        *string `json:"name,omitempty"`
	Role        *string `json:"role,omitempty"`
	Affiliation *string `json:"affiliation,omitempty"`
	Expertise   *string `json:"expertise,omitempty"`
}

// ModelConfigSnapshot is the optional-field form of ModelConfig.
type ModelConfigSnapshot struct {
	ModelName   *string  `json:"modelName,omitempty"`
	APIKey      *string  `json:"apiKey,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopK        *int     `json:"topK,omitempty"`
	TopP        *float64 `json:"topP,omitempty"`
	BaseURL     *string  `json:"baseUrl,omitempty"`
}

// DecodeSnapshot parses a persisted config snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode config snapshot: %w",
			err)
	}

	return snap, nil
}

// overrideString replaces dst with the snapshot value when present.
func overrideString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// MergeOverDefaults applies a snapshot field-by-field on top of the given
// defaults. Nested objects are merged per field, never wholesale-replaced,
// so a snapshot that predates a field still yields that field's default.
func MergeOverDefaults(defaults AppConfig, snap Snapshot) AppConfig {
	cfg := defaults

	if snap.UserProfile != nil {
		overrideString(&cfg.UserProfile.Name, snap.UserProfile.Name)
		overrideString(&cfg.UserProfile.Role, snap.UserProfile.Role)
		overrideString(
			&cfg.UserProfile.Affiliation,
			snap.UserProfile.Affiliation,
		)
		overrideString(
			&cfg.UserProfile.Expertise, snap.UserProfile.Expertise,
		)
	}

	if snap.FewShotExamples != nil {
		cfg.FewShotExamples = *snap.FewShotExamples
	}

	if snap.CustomConferences != nil {
		cfg.CustomConferences = *snap.CustomConferences
	}

	if snap.ModelConfig != nil {
		mc := snap.ModelConfig
		overrideString(&cfg.ModelConfig.ModelName, mc.ModelName)
		overrideString(&cfg.ModelConfig.APIKey, mc.APIKey)
		overrideString(&cfg.ModelConfig.BaseURL, mc.BaseURL)
		if mc.Temperature != nil {
			cfg.ModelConfig.Temperature = *mc.Temperature
		}
		if mc.TopK != nil {
			cfg.ModelConfig.TopK = *mc.TopK
		}
		if mc.TopP != nil {
			cfg.ModelConfig.TopP = *mc.TopP
		}
	}

	return cfg
}

// FromJSON decodes a persisted snapshot and merges it over the defaults. An
// empty payload yields the defaults unchanged. Decode failures are returned
// to the caller, which is expected to log and fall back to defaults rather
// than fail startup.
func FromJSON(data []byte) (AppConfig, error) {
	if len(data) == 0 {
		return DefaultConfig(), nil
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return DefaultConfig(), err
	}

	return MergeOverDefaults(DefaultConfig(), snap), nil
}
