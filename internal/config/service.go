package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/store"
)

// ServiceKey is the service key for the config service actor.
var ServiceKey = actor.NewServiceKey[ConfigRequest, ConfigResponse](
	"config-service",
)

// Ensure Service implements ActorBehavior.
var _ actor.ActorBehavior[ConfigRequest, ConfigResponse] = (*Service)(nil)

// Service owns the application configuration. All reads and mutations flow
// through this single actor, so the snapshot on disk and the in-memory copy
// can never diverge under concurrent callers. Every mutation re-persists the
// full snapshot.
type Service struct {
	store store.ConfigStore

	current AppConfig
}

// NewService creates a config service backed by the given store. The
// persisted snapshot is loaded and merged over defaults; a missing or
// undecodable snapshot falls back to defaults without failing startup.
func NewService(ctx context.Context, configStore store.ConfigStore) *Service {
	current := DefaultConfig()

	data, err := configStore.GetAppConfig(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.InfoS(ctx, "No persisted config found, using defaults")

	case err != nil:
		log.ErrorS(ctx, "Unable to load persisted config, "+
			"using defaults", err)

	default:
		current, err = FromJSON(data)
		if err != nil {
			log.ErrorS(ctx, "Unable to decode persisted config, "+
				"using defaults", err)
		}
	}

	return &Service{
		store:   configStore,
		current: current,
	}
}

// Receive implements actor.ActorBehavior by dispatching to type-specific
// handlers.
func (s *Service) Receive(ctx context.Context,
	msg ConfigRequest,
) fn.Result[ConfigResponse] {
	switch m := msg.(type) {
	case GetConfigMsg:
		return fn.Ok[ConfigResponse](GetConfigResp{
			Config: s.current,
		})

	case UpdateConfigMsg:
		return fn.Ok[ConfigResponse](s.handleUpdate(ctx, m))

	case AppendStyleMsg:
		return fn.Ok[ConfigResponse](s.handleAppendStyle(ctx, m))

	case AddConferenceMsg:
		return fn.Ok[ConfigResponse](s.handleAddConference(ctx, m))

	case ListConferencesMsg:
		return fn.Ok[ConfigResponse](ListConferencesResp{
			Conferences: conference.Merged(
				s.current.CustomConferences,
			),
		})

	default:
		return fn.Err[ConfigResponse](fmt.Errorf(
			"unknown message type: %T", msg,
		))
	}
}

// handleUpdate replaces the effective config and persists the snapshot.
func (s *Service) handleUpdate(ctx context.Context,
	msg UpdateConfigMsg,
) UpdateConfigResp {
	if err := s.persist(ctx, msg.Config); err != nil {
		return UpdateConfigResp{Config: s.current, Error: err}
	}

	s.current = msg.Config

	log.InfoS(ctx, "Config updated",
		"model", s.current.ModelConfig.ModelName,
		"custom_conferences", len(s.current.CustomConferences))

	return UpdateConfigResp{Config: s.current}
}

// handleAppendStyle appends a learned example to the style corpus and
// persists the snapshot.
func (s *Service) handleAppendStyle(ctx context.Context,
	msg AppendStyleMsg,
) AppendStyleResp {
	updated := s.current
	updated.FewShotExamples = AppendStyleExample(
		updated.FewShotExamples, msg.Example, time.Now(),
	)

	if err := s.persist(ctx, updated); err != nil {
		return AppendStyleResp{Config: s.current, Error: err}
	}

	s.current = updated

	log.DebugS(ctx, "Style example learned",
		"corpus_len", len(s.current.FewShotExamples))

	return AppendStyleResp{Config: s.current}
}

// handleAddConference appends a user-defined venue and persists the
// snapshot.
func (s *Service) handleAddConference(ctx context.Context,
	msg AddConferenceMsg,
) AddConferenceResp {
	if msg.Conference.ID == "" {
		return AddConferenceResp{
			Config: s.current,
			Error:  fmt.Errorf("conference id is required"),
		}
	}

	updated := s.current
	updated.CustomConferences = append(
		append(
			[]conference.Conference{},
			s.current.CustomConferences...,
		),
		msg.Conference,
	)

	if err := s.persist(ctx, updated); err != nil {
		return AddConferenceResp{Config: s.current, Error: err}
	}

	s.current = updated

	log.InfoS(ctx, "Custom conference added",
		"conference_id", msg.Conference.ID)

	return AddConferenceResp{Config: s.current}
}

// persist writes the full snapshot for the given config.
func (s *Service) persist(ctx context.Context, cfg AppConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config snapshot: %w", err)
	}

	if err := s.store.SetAppConfig(ctx, data); err != nil {
		return fmt.Errorf("persist config snapshot: %w", err)
	}

	return nil
}
