// Package llm calls an OpenAI-compatible chat completions API. It is the
// console's reply-producing collaborator: given a conversation history it
// returns reply text and the token count the provider reported.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message mirrors the wire shape of one chat entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client wraps the HTTP plumbing required to call the chat completions API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

const defaultBaseURL = "https://api.openai.com/v1"

// NewClient configures the client. The base URL may point at any
// OpenAI-compatible provider (OpenRouter, Ollama, a local server); empty
// picks the OpenAI default.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if model == "" {
		return nil, errors.New("llm: model is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// SetSampling overrides the request's max_tokens and temperature. Zero
// values leave the provider defaults in place.
func (c *Client) SetSampling(maxTokens int, temperature float64) {
	c.maxTokens = maxTokens
	c.temperature = temperature
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the history and returns the assistant content plus the
// total token count for the exchange.
func (c *Client) Complete(ctx context.Context, history []Message) (string, int, error) {
	payload := chatCompletionRequest{
		Model:       c.model,
		Messages:    history,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("llm: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return "", 0, fmt.Errorf("llm: status %s: %s", resp.Status, string(msg))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", 0, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", 0, errors.New("llm: response contained no choices")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	return content, completion.Usage.TotalTokens, nil
}
