package config

import (
	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/conference"
)

// ConfigRequest is the union type for all config service requests.
type ConfigRequest interface {
	actor.Message
	isConfigRequest()
}

// ConfigResponse is the union type for all config service responses.
type ConfigResponse interface {
	isConfigResponse()
}

// Ensure all request types implement ConfigRequest.
func (GetConfigMsg) isConfigRequest()       {}
func (UpdateConfigMsg) isConfigRequest()    {}
func (AppendStyleMsg) isConfigRequest()     {}
func (AddConferenceMsg) isConfigRequest()   {}
func (ListConferencesMsg) isConfigRequest() {}

// Ensure all response types implement ConfigResponse.
func (GetConfigResp) isConfigResponse()       {}
func (UpdateConfigResp) isConfigResponse()    {}
func (AppendStyleResp) isConfigResponse()     {}
func (AddConferenceResp) isConfigResponse()   {}
func (ListConferencesResp) isConfigResponse() {}

// GetConfigMsg requests the current effective configuration.
type GetConfigMsg struct {
	actor.BaseMessage
}

// MessageType implements actor.Message.
func (GetConfigMsg) MessageType() string { return "GetConfigMsg" }

// GetConfigResp carries the current effective configuration.
type GetConfigResp struct {
	Config AppConfig
}

// UpdateConfigMsg replaces the effective configuration with the given one
// and re-persists the snapshot.
type UpdateConfigMsg struct {
	actor.BaseMessage

	Config AppConfig
}

// MessageType implements actor.Message.
func (UpdateConfigMsg) MessageType() string { return "UpdateConfigMsg" }

// UpdateConfigResp reports the stored configuration after the update.
type UpdateConfigResp struct {
	Config AppConfig
	Error  error
}

// AppendStyleMsg appends a learned example to the style-exemplar corpus.
type AppendStyleMsg struct {
	actor.BaseMessage

	Example string
}

// MessageType implements actor.Message.
func (AppendStyleMsg) MessageType() string { return "AppendStyleMsg" }

// AppendStyleResp reports the configuration after the corpus append.
type AppendStyleResp struct {
	Config AppConfig
	Error  error
}

// AddConferenceMsg appends a user-defined venue to the custom conference
// list. No id uniqueness is enforced; lookup resolves duplicates.
type AddConferenceMsg struct {
	actor.BaseMessage

	Conference conference.Conference
}

// MessageType implements actor.Message.
func (AddConferenceMsg) MessageType() string { return "AddConferenceMsg" }

// AddConferenceResp reports the configuration after the venue was added.
type AddConferenceResp struct {
	Config AppConfig
	Error  error
}

// ListConferencesMsg requests the merged venue set (built-ins plus custom).
type ListConferencesMsg struct {
	actor.BaseMessage
}

// MessageType implements actor.Message.
func (ListConferencesMsg) MessageType() string { return "ListConferencesMsg" }

// ListConferencesResp carries the merged venue set.
type ListConferencesResp struct {
	Conferences []conference.Conference
}
