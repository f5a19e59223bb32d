package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	Temperature = 0.7
	MaxTokens   = 500
)

var ErrEmptyCompletion = errors.New("completion has no content")

// Exchange: одна пара (system, user) и извлечённый ответ
type Exchange struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	Reply        string
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client: OpenAI-совместимый chat/completions (Cerebras)
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   opts.Model,
		timeout: opts.Timeout,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete: один stateless запрос: системный промпт + текущее сообщение.
// История переписки сюда не подмешивается.
func (c *Client) Complete(ctx context.Context, userText string) (Exchange, error) {
	ex := Exchange{
		Model:        c.model,
		SystemPrompt: SystemPrompt,
		UserMessage:  userText,
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: ex.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: ex.UserMessage},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return ex, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ex, fmt.Errorf("%w: no choices", ErrEmptyCompletion)
	}

	reply := resp.Choices[0].Message.Content
	if reply == "" {
		return ex, fmt.Errorf("%w: choices[0].message.content is empty", ErrEmptyCompletion)
	}

	ex.Reply = reply
	return ex, nil
}
