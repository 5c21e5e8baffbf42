// ABOUTME: OpenAI client for deriving chat titles from message content
// ABOUTME: Uses gpt-4o-mini by default with retry and timeout handling
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/chatstash/internal/models"
	"github.com/harper/chatstash/internal/util"
)

// DefaultChatModel is the default model for chat completions
const DefaultChatModel = "gpt-4o-mini"

// titlePrompt asks for a short title only; anything longer gets trimmed
const titlePrompt = "Generate a short title (at most 6 words) for the following conversation. " +
	"Respond with the title only, no quotes, no trailing punctuation."

// maxTranscriptChars caps how much conversation is sent per request
const maxTranscriptChars = 4000

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("CHATSTASH_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  chatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:     openai.NewClient(config.APIKey),
		chatModel:  config.ChatModel,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// GenerateChatTitle derives a short title from a chat's messages
func (c *OpenAIClient) GenerateChatTitle(messages []models.Message) (string, error) {
	transcript := buildTranscript(messages)
	if transcript == "" {
		return "", fmt.Errorf("no message content to summarize")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: titlePrompt},
				{Role: openai.ChatMessageRoleUser, Content: transcript},
			},
			MaxTokens: 32,
		})
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion response")
			continue
		}

		title := cleanTitle(resp.Choices[0].Message.Content)
		if title == "" {
			lastErr = fmt.Errorf("model returned empty title")
			continue
		}
		return title, nil
	}

	return "", fmt.Errorf("failed to generate title after %d attempts: %w", c.maxRetries+1, lastErr)
}

// buildTranscript flattens messages into a role-labeled transcript,
// truncated to keep the request small
func buildTranscript(messages []models.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
		if b.Len() > maxTranscriptChars {
			break
		}
	}
	transcript := b.String()
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[:maxTranscriptChars]
	}
	return strings.TrimSpace(transcript)
}

// cleanTitle strips quotes and whitespace the model tends to add
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
