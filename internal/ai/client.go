package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	langopenai "github.com/tmc/langchaingo/llms/openai"

	"innerbloom-backend/internal/common"
	"innerbloom-backend/internal/logger"
)

// ErrNotConfigured marks a missing API credential. It is detected before
// any network attempt and is not retryable without operator action.
var ErrNotConfigured = errors.New("generative api credential not configured")

// TitleSummary is the structured result of a session summary request.
type TitleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Client talks to the OpenAI-compatible Hunyuan endpoint for one-shot
// completions, and to the Tencent Cloud streaming API for chat turns.
type Client struct {
	token    string
	model    string
	baseURL  string
	secretID string
	secret   string
	log      *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{
		token:    common.HunyuanToken,
		model:    common.HunyuanModel,
		baseURL:  common.HunyuanBaseUrl,
		secretID: common.TencentSecretID,
		secret:   common.TencentSecretKey,
		log:      log.With("service", "ai"),
	}
}

// Complete runs a one-shot generation with a system instruction.
func (c *Client) Complete(ctx context.Context, system, text string) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}
	llm, err := langopenai.New(
		langopenai.WithToken(c.token),
		langopenai.WithModel(c.model),
		langopenai.WithBaseURL(c.baseURL))
	if err != nil {
		return "", err
	}
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}
	resp, err := llm.GenerateContent(ctx, content,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(512))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate content: empty response")
	}
	return resp.Choices[0].Content, nil
}

// CompleteJSON runs Complete and parses a {title, summary} object from the
// output, tolerating code fences and leading prose.
func (c *Client) CompleteJSON(ctx context.Context, system, text string) (TitleSummary, error) {
	raw, err := c.Complete(ctx, system, text)
	if err != nil {
		return TitleSummary{}, err
	}
	var ts TitleSummary
	if err := json.Unmarshal([]byte(extractJSON(raw)), &ts); err != nil {
		return TitleSummary{}, fmt.Errorf("parse structured response: %w", err)
	}
	return ts, nil
}

// extractJSON pulls the outermost object out of a model reply that may be
// wrapped in markdown fences or surrounding text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
