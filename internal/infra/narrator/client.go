// Package narrator implements domain.TextGenerator against an
// OpenAI-compatible chat-completion endpoint.
package narrator

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

	"github.com/daybook-app/daybook/internal/domain"
)

// Ensure Client implements domain.TextGenerator.
var _ domain.TextGenerator = (*Client)(nil)

// maxResponseBytes bounds how much of a reply body is read.
const maxResponseBytes = 1 << 20

// Options configures a Client.
type Options struct {
	HTTPClient   *http.Client // Defaults to a client with Timeout
	Endpoint     string
	Model        string
	APIKey       string
	SystemPrompt string // Defaults to domain.NarrationSystemPrompt
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// Client sends one non-streaming chat-completion request per Generate call.
// There is no retry.
type Client struct {
	http *http.Client
	opts Options
}

// New creates a new Client.
func New(opts Options) *Client {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = domain.NarrationSystemPrompt
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultNarrationTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{http: hc, opts: opts}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Error   *chatError   `json:"error,omitempty"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Message string `json:"message"`
}

// ParseFailure reports a reply that did not yield narration text.
type ParseFailure struct {
	Err        error  // Underlying decode error, if any
	Reason     string // What was wrong with the reply
	StatusCode int
}

func (e *ParseFailure) Error() string {
	msg := fmt.Sprintf("narration reply (status %d): %s", e.StatusCode, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// Generate sends prompt and returns the reply text.
// A missing API key fails with domain.ErrNoAPIKey before any I/O.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.opts.APIKey == "" {
		return "", domain.ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.opts.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode narration request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build narration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("narration request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read narration reply: %w", err)
	}

	return parseReply(resp.StatusCode, raw)
}

// parseReply extracts the first choice's content from a reply body.
func parseReply(status int, raw []byte) (string, error) {
	var resp chatResponse
	decodeErr := json.Unmarshal(raw, &resp)

	if status < 200 || status > 299 {
		reason := "unexpected status"
		if decodeErr == nil && resp.Error != nil && resp.Error.Message != "" {
			reason += ": " + resp.Error.Message
		}
		return "", &ParseFailure{StatusCode: status, Reason: reason}
	}
	if decodeErr != nil {
		return "", &ParseFailure{StatusCode: status, Reason: "malformed JSON", Err: decodeErr}
	}
	if len(resp.Choices) == 0 {
		return "", &ParseFailure{StatusCode: status, Reason: "no choices"}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &ParseFailure{StatusCode: status, Reason: "empty content"}
	}
	return text, nil
}

// IsParseFailure reports whether err is a *ParseFailure.
func IsParseFailure(err error) bool {
	var pf *ParseFailure
	return errors.As(err, &pf)
}
