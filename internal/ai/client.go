package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// RequestStyle selects how the prompt and output-format request are encoded
// in the Responses API body.
type RequestStyle string

const (
	// StyleInputText sends the prompt as a raw input string with a
	// json_object text format.
	StyleInputText RequestStyle = "input_text"

	// StyleDeveloperTools sends the prompt as a developer-role message
	// array and declares the web search tool.
	StyleDeveloperTools RequestStyle = "developer_tools"
)

// ClientConfig holds the settings needed to build a Client.
type ClientConfig struct {
	APIKey        string
	Model         string
	FallbackModel string
	BaseURL       string // defaults to the public OpenAI API
	Style         RequestStyle
}

// Client calls the OpenAI Responses API. A primary deep-research model is
// tried first; when it fails for a model-availability or permission reason,
// the call is retried once against the fallback model.
type Client struct {
	cfg    ClientConfig
	client *http.Client
}

// NewClient creates a Client with a 60-second timeout HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Style == "" {
		cfg.Style = StyleInputText
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// APIError is a non-2xx answer from the Responses API. Detail carries the
// raw upstream error body so callers can surface it verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai responses: status %d: %s", e.Status, e.Detail)
}

// modelUnavailable reports whether the error looks like a model-availability
// or permission failure, the only class worth retrying on the fallback model.
func (e *APIError) modelUnavailable() bool {
	detail := strings.ToLower(e.Detail)
	return strings.Contains(detail, "model") ||
		strings.Contains(detail, "not found") ||
		strings.Contains(detail, "permission")
}

// responsesRequest is the request body for the Responses API. Input is
// either a raw prompt string or an inputMessage slice depending on style.
type responsesRequest struct {
	Model string      `json:"model"`
	Input any         `json:"input"`
	Text  *textFormat `json:"text,omitempty"`
	Tools []tool      `json:"tools,omitempty"`
}

type textFormat struct {
	Format formatSpec `json:"format"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type tool struct {
	Type string `json:"type"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []inputContent `json:"content"`
}

type inputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// responsesResponse is the subset of the Responses API answer we read.
type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Research sends the prompt to the primary model and returns the generated
// text. On a model/permission-class failure it retries once with the
// fallback model; the fallback's error wins when both fail.
func (c *Client) Research(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY is missing")
	}

	text, err := c.call(ctx, c.cfg.Model, prompt)
	if err == nil {
		return text, nil
	}

	var apiErr *APIError
	if c.cfg.FallbackModel != "" && errors.As(err, &apiErr) && apiErr.modelUnavailable() {
		slog.Warn("primary model unavailable, retrying with fallback",
			"model", c.cfg.Model,
			"fallback", c.cfg.FallbackModel,
		)
		return c.call(ctx, c.cfg.FallbackModel, prompt)
	}

	return "", err
}

// call makes one POST to the Responses API and extracts the generated text.
func (c *Client) call(ctx context.Context, model, prompt string) (string, error) {
	reqBody := responsesRequest{
		Model: model,
		Text:  &textFormat{Format: formatSpec{Type: "json_object"}},
	}
	switch c.cfg.Style {
	case StyleDeveloperTools:
		reqBody.Input = []inputMessage{
			{
				Role:    "developer",
				Content: []inputContent{{Type: "input_text", Text: prompt}},
			},
		}
		reqBody.Tools = []tool{{Type: "web_search_preview"}}
	default:
		reqBody.Input = prompt
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling OpenAI Responses API", "model", model)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Status: resp.StatusCode, Detail: string(respBody)}
	}

	var apiResp responsesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parsing response (status %d): %w", resp.StatusCode, err)
	}

	return extractText(apiResp), nil
}

// extractText pulls the generated text out of a Responses API answer.
// The convenience output_text field wins; otherwise the last output item's
// first content entry is used. "{}" stands in when neither is present, so
// downstream parsing sees an empty object rather than an empty string.
func extractText(resp responsesResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	if len(resp.Output) > 0 {
		last := resp.Output[len(resp.Output)-1]
		if len(last.Content) > 0 && last.Content[0].Text != "" {
			return last.Content[0].Text
		}
	}
	return "{}"
}
