// Package llm is the gateway to an OpenAI-compatible chat-completions
// provider. One HTTP POST per call, bearer auth, bounded timeout; transport
// and status faults come back as typed errors so callers can branch and
// degrade instead of crashing.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"phoenix/ports"
)

// Config holds provider settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// TransportError reports a network-level or HTTP-status fault from the
// provider. It is a recoverable value: callers check for it and continue
// without the LLM.
type TransportError struct {
	StatusCode int // 0 for network-level faults
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("llm request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Client implements ports.LLMClient against a chat-completions endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a gateway client. The configuration is read-only after
// construction; one client is shared process-wide.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing LLM API key")
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://api.deepseek.com/v1"
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = "deepseek-chat"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze sends a free-form analysis prompt and returns the reply text
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, nil)
}

// Transform asks the model for structured JSON describing the requested
// transformation of the data. The model may wrap the JSON in markdown fences
// or chatter; that is stripped before parsing, and an unparseable reply is
// surfaced as a *ports.ParseError carrying the raw text.
func (c *Client) Transform(ctx context.Context, data, instruction string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(`You are a data transformation expert. Convert the following unstructured data into a structured JSON format based on the user's request.
The output MUST be a valid JSON object or a JSON array.

User's request: %q

Unstructured data:
---
%s
---`, instruction, data)

	content, err := c.complete(ctx, prompt, &responseFormat{Type: "json_object"})
	if err != nil {
		return nil, err
	}

	cleaned := cleanJSONContent(content)
	if !json.Valid([]byte(cleaned)) {
		return nil, &ports.ParseError{
			Raw:   content,
			Cause: fmt.Errorf("model reply is not valid JSON"),
		}
	}
	return json.RawMessage(cleaned), nil
}

// complete issues the single HTTP POST behind both modes
func (c *Client) complete(ctx context.Context, prompt string, format *responseFormat) (string, error) {
	body := chatRequest{
		Model:          c.config.Model,
		Messages:       []message{{Role: "user", Content: prompt}},
		ResponseFormat: format,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(respRaw)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(respRaw), Cause: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(respRaw), Cause: fmt.Errorf("response missing choices")}
	}
	return decoded.Choices[0].Message.Content, nil
}

// cleanJSONContent strips markdown code fences and leading chatter so a JSON
// object wrapped in extra text still parses.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	if json.Valid([]byte(content)) {
		return content
	}

	// Fall back to the outermost braces/brackets
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(content, pair[0])
		end := strings.LastIndexByte(content, pair[1])
		if start >= 0 && end > start {
			candidate := content[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}
	return content
}
