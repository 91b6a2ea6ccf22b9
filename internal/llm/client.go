// Package llm talks to an OpenAI-compatible chat-completions endpoint. The
// rest of the pipeline treats the model as an opaque function of
// (prompt, seed) that can fail on transport or quota errors.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports unit counts for one call, when the endpoint supplies them.
type Usage struct {
	InputUnits  int `json:"input_units"`
	OutputUnits int `json:"output_units"`
}

// Response is one completed model call.
type Response struct {
	Text  string
	Usage Usage
}

// Options configures one completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
	// Seed makes the call idempotent for identical (prompt, seed) pairs on
	// endpoints that honor it; required for reproducible evaluation runs.
	Seed int
}

// DefaultOptions returns the options used when the caller has no opinion.
func DefaultOptions() Options {
	return Options{Temperature: 0, MaxTokens: -1, Seed: 42}
}

// Client is the boundary the orchestrator and ranker depend on.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (Response, error)
}

// HTTPClient implements Client against an OpenAI-compatible server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewHTTPClient creates a client for the given endpoint. Model may be empty
// when the server has a single loaded model.
func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// Complete sends messages and returns the full response text plus usage.
func (c *HTTPClient) Complete(ctx context.Context, messages []Message, opts Options) (Response, error) {
	payload := map[string]any{
		"messages":    messages,
		"temperature": opts.Temperature,
		"max_tokens":  opts.MaxTokens,
		"seed":        opts.Seed,
		"stream":      false,
	}
	if c.model != "" {
		payload["model"] = c.model
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("model call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return Response{}, fmt.Errorf("model returned status %d", resp.StatusCode)
		}
		return Response{}, fmt.Errorf("model returned status %d: %s", resp.StatusCode, string(msg))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Response{}, fmt.Errorf("decode model response: %w", err)
	}
	if len(result.Choices) == 0 {
		return Response{}, errors.New("model returned no choices")
	}

	return Response{
		Text: result.Choices[0].Message.Content,
		Usage: Usage{
			InputUnits:  result.Usage.PromptTokens,
			OutputUnits: result.Usage.CompletionTokens,
		},
	}, nil
}

// HealthCheck verifies the endpoint is reachable.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("model endpoint not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
