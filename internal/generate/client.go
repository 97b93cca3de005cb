// Package generate talks to a local text-generation endpoint
// (Ollama-compatible /api/generate).
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FallbackHeader prefixes content written when the model is unreachable.
const FallbackHeader = "AUTOGEN FALLBACK\n\n"

// DefaultTimeout bounds one generation request.
const DefaultTimeout = 2 * time.Minute

// Client calls a local model over HTTP.
type Client struct {
	Endpoint string
	Model    string
	HTTP     *http.Client
}

// NewClient creates a client for endpoint and model.
func NewClient(endpoint, model string) *Client {
	return &Client{
		Endpoint: endpoint,
		Model:    model,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

type generateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends prompt to the endpoint and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.Model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", c.Endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s returned %s: %s", c.Endpoint, resp.Status, strings.TrimSpace(string(data)))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("model error: %s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("model returned an empty response")
	}

	return out.Response, nil
}

// Result is the outcome of Overview.
type Result struct {
	Content  string
	Fallback bool
	// Err is the generation failure that caused the fallback.
	Err error
}

// Overview generates text for prompt. When the model cannot be reached the
// prompt is echoed behind FallbackHeader, so there is always content to write.
func (c *Client) Overview(ctx context.Context, prompt string) Result {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return Result{Content: FallbackHeader + prompt, Fallback: true, Err: err}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return Result{Content: text}
}
