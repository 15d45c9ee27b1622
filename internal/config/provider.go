package config

import (
	"context"

	"github.com/roasbeef/revue/internal/actorutil"
	"github.com/roasbeef/revue/internal/baselib/actor"
)

// Provider reads the current configuration through the config service
// actor, so every consumer observes settings edits in order.
type Provider struct {
	ref actor.ActorRef[ConfigRequest, ConfigResponse]
}

// NewProvider wraps a config service ref.
func NewProvider(ref actor.ActorRef[ConfigRequest, ConfigResponse]) *Provider {
	return &Provider{ref: ref}
}

// CurrentConfig returns the effective configuration.
func (p *Provider) CurrentConfig(ctx context.Context) (AppConfig, error) {
	resp, err := actorutil.AskAwaitTyped[
		ConfigRequest, ConfigResponse, GetConfigResp,
	](ctx, p.ref, GetConfigMsg{})
	if err != nil {
		return AppConfig{}, err
	}

	return resp.Config, nil
}
