// Package gpt talks to an OpenAI-compatible chat endpoint on behalf of the
// bar: it invents recipes, critiques hand-built drinks and judges missions.
package gpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hammamikhairi/ottobar/internal/logger"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrEmptyReply is returned when the model answers with no choices or no text.
var ErrEmptyReply = errors.New("gpt: empty response")

// ClientOption configures the Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// WithBaseURL points the client at another OpenAI-compatible server.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(o *clientOptions) { o.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(o *clientOptions) { o.temperature = t }
}

// WithMaxTokens sets the response token limit. Zero leaves it to the server.
func WithMaxTokens(n int) ClientOption {
	return func(o *clientOptions) { o.maxTokens = n }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// Client sends single-turn JSON chat completions.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *logger.Logger
}

// NewClient creates a chat client. Without WithBaseURL it talks to Gemini's
// OpenAI-compatible endpoint.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	o := clientOptions{
		baseURL:     GeminiBaseURL,
		model:       DefaultModel,
		temperature: 0.9,
		timeout:     60 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = o.baseURL
	config.HTTPClient = &http.Client{Timeout: o.timeout}

	return &Client{
		api:         openai.NewClientWithConfig(config),
		model:       o.model,
		temperature: o.temperature,
		maxTokens:   o.maxTokens,
		log:         log,
	}
}

// Chat sends a system instruction and a user message and returns the
// assistant's reply. The model is asked for a JSON object.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	c.log.Debug("gpt: %s request (%d chars)", c.model, len(user))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gpt: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}

	reply := resp.Choices[0].Message.Content
	c.log.Debug("gpt: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
