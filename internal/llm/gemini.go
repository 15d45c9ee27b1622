package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/review"
)

// ErrMissingAPIKey is returned when neither the config nor the
// environment provides a model credential.
var ErrMissingAPIKey = errors.New(
	"API key missing: set it in settings or the environment",
)

// Fallback texts for degraded stages.
const (
	// ScreenFallbackReason is the pass verdict reason used when the
	// desk reject check fails for a reason other than a missing
	// credential.
	ScreenFallbackReason = "Auto-check failed or API error. " +
		"Proceeding to review."

	// EmptyRebuttalReply stands in for an empty model response in the
	// rebuttal dialogue.
	EmptyRebuttalReply = "I have no further comments."
)

// Temperatures pinned per stage. The screen stage is a rules check and
// runs near deterministic; the rebuttal persona needs some variance to
// argue naturally. The full review uses the user's sampling settings.
const (
	screenTemperature   float32 = 0.1
	rebuttalTemperature float32 = 0.7
)

// GeminiGateway drives the hosted Gemini API. A fresh client is built
// per call so config edits (credential, endpoint) take effect without a
// restart.
type GeminiGateway struct {
	// defaultAPIKey is the environment provided credential used when
	// the config carries no override.
	defaultAPIKey string
}

// Compile-time check that GeminiGateway satisfies the pipeline's
// gateway contract.
var _ review.Gateway = (*GeminiGateway)(nil)

// NewGeminiGateway creates a gateway that falls back to defaultAPIKey
// when the config has no credential override.
func NewGeminiGateway(defaultAPIKey string) *GeminiGateway {
	return &GeminiGateway{
		defaultAPIKey: defaultAPIKey,
	}
}

// newClient builds a genai client for one call, honoring the config's
// credential and endpoint overrides.
func (g *GeminiGateway) newClient(ctx context.Context,
	cfg config.AppConfig,
) (*genai.Client, error) {
	apiKey := cfg.ModelConfig.APIKey
	if apiKey == "" {
		apiKey = g.defaultAPIKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey: apiKey,
	}
	if cfg.ModelConfig.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.ModelConfig.BaseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return client, nil
}

// modelName returns the configured model, falling back to the default.
func modelName(cfg config.AppConfig) string {
	if cfg.ModelConfig.ModelName != "" {
		return cfg.ModelConfig.ModelName
	}

	return config.DefaultModelName
}

// Screen runs the desk reject check. Failures past credential
// resolution degrade to a pass verdict so a flaky check never blocks a
// review.
func (g *GeminiGateway) Screen(ctx context.Context,
	req review.ScreenRequest,
) (*review.ScreenVerdict, error) {
	client, err := g.newClient(ctx, req.Config)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(
			screenPrompt(req.Conference, req.Config),
			genai.RoleUser,
		),
		genai.NewContentFromText(
			screenPaperText(req.PaperText), genai.RoleUser,
		),
	}

	resp, err := client.Models.GenerateContent(
		ctx, modelName(req.Config), contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   screenSchema,
			Temperature:      genai.Ptr(screenTemperature),
		},
	)
	if err != nil {
		log.Errorf("Desk reject check failed for conference=%s: %v",
			req.Conference.ID, err)

		return screenFallback(), nil
	}

	var verdict review.ScreenVerdict
	if err := json.Unmarshal([]byte(resp.Text()), &verdict); err != nil {
		log.Errorf("Desk reject check returned malformed JSON: %v",
			err)

		return screenFallback(), nil
	}

	return &verdict, nil
}

// screenFallback is the fail-open verdict for a degraded screen stage.
func screenFallback() *review.ScreenVerdict {
	return &review.ScreenVerdict{
		IsDeskReject: false,
		Reason:       ScreenFallbackReason,
	}
}

// Review runs the full structured review. Unlike Screen, any failure
// here is fatal to the pipeline.
func (g *GeminiGateway) Review(ctx context.Context,
	req review.ReviewRequest,
) (*review.Result, error) {
	client, err := g.newClient(ctx, req.Config)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(
			reviewPrompt(req.Conference, req.Config),
			genai.RoleUser,
		),
		genai.NewContentFromText(
			reviewPaperText(req.PaperText), genai.RoleUser,
		),
	}

	model := req.Config.ModelConfig

	resp, err := client.Models.GenerateContent(
		ctx, modelName(req.Config), contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   reviewSchema,
			Temperature:      genai.Ptr(float32(model.Temperature)),
			TopK:             genai.Ptr(float32(model.TopK)),
			TopP:             genai.Ptr(float32(model.TopP)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("review generation failed: %w", err)
	}

	rawOutput := resp.Text()

	var result review.Result
	if err := json.Unmarshal([]byte(rawOutput), &result); err != nil {
		return nil, fmt.Errorf("decode review response: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	result.IsDeskReject = false
	result.RawOutput = rawOutput

	return &result, nil
}

// Rebuttal generates the reviewer's next dialogue turn. The history
// minus its final author message seeds the chat; the final message is
// sent as the live turn.
func (g *GeminiGateway) Rebuttal(ctx context.Context,
	req review.RebuttalRequest,
) (string, error) {
	if len(req.History) == 0 {
		return "", errors.New("rebuttal history is empty")
	}

	client, err := g.newClient(ctx, req.Config)
	if err != nil {
		return "", err
	}

	history := make([]*genai.Content, 0, len(req.History)-1)
	for _, turn := range req.History[:len(req.History)-1] {
		var role genai.Role = genai.RoleUser
		if turn.Role == review.RoleModel {
			role = genai.RoleModel
		}
		history = append(history,
			genai.NewContentFromText(turn.Text, role))
	}

	chat, err := client.Chats.Create(
		ctx, modelName(req.Config),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				rebuttalSystemPrompt(req), genai.RoleUser,
			),
			Temperature: genai.Ptr(rebuttalTemperature),
		},
		history,
	)
	if err != nil {
		return "", fmt.Errorf("create rebuttal chat: %w", err)
	}

	lastTurn := req.History[len(req.History)-1]

	resp, err := chat.SendMessage(ctx, genai.Part{Text: lastTurn.Text})
	if err != nil {
		return "", fmt.Errorf("rebuttal generation failed: %w", err)
	}

	if text := resp.Text(); text != "" {
		return text, nil
	}

	return EmptyRebuttalReply, nil
}
