package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"parley.app/relay/internal/model"
)

// ErrEmptyCompletion is returned when the completion service answers
// successfully but the response carries no choice content.
var ErrEmptyCompletion = errors.New("completion response has no content")

// Client issues chat completions against the external completion service.
// One request per call; callers own retry policy (there is none).
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Model() string
}

// Message is a wire-level completion message. Role is already mapped to the
// completion service's vocabulary (system/user/assistant).
type Message struct {
	Role    string
	Content string
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type client struct {
	openai openai.Client
	model  string
}

func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The SDK retries 429/5xx by default; the relay's contract is one
		// downstream request per call, failures settle immediately.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	m := cfg.Model
	if m == "" {
		m = "gpt-3.5-turbo"
	}

	return &client{
		openai: openai.NewClient(opts...),
		model:  m,
	}, nil
}

func (c *client) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toParams(messages),
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	slog.DebugContext(ctx, "completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *client) Model() string {
	return c.model
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case model.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

// UpstreamStatus extracts the HTTP status code of a completion API error.
// Returns 0 when err did not come from an API response (network failure,
// cancelled context, malformed body).
func UpstreamStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
