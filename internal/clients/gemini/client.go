package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/utils"
)

// TextGenerator is the single-prompt completion surface the counsellor
// pipeline depends on. The production implementation talks to Gemini;
// tests substitute a counting fake.
type TextGenerator interface {
	// Configured reports whether a usable API credential is present.
	// Callers must check it before GenerateText; the gateway uses it to
	// short-circuit without any network traffic.
	Configured() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// UpstreamError marks failures where the service responded with a
// non-success status, as opposed to the request never completing.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini upstream error (status %d): %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

const defaultModel = "gemini-2.5-flash"

type Client struct {
	log    *logger.Logger
	client *genai.Client
	model  string
}

// NewClient builds the Gemini client. A missing or placeholder API key is
// not an error here: the client comes up unconfigured and the gateway
// degrades gracefully, so the whole backend still boots without a key.
func NewClient(ctx context.Context, log *logger.Logger) (*Client, error) {
	clientLog := log.With("client", "GeminiClient")

	apiKey := strings.TrimSpace(utils.GetEnv("GEMINI_API_KEY", "", log))
	model := utils.GetEnv("GEMINI_MODEL", defaultModel, log)

	if isPlaceholder(apiKey) {
		clientLog.Warn("GEMINI_API_KEY missing or placeholder, AI counsellor will run degraded")
		return &Client{log: clientLog, model: model}, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	clientLog.Info("Gemini client initialized", "model", model)
	return &Client{log: clientLog, client: gc, model: model}, nil
}

// isPlaceholder treats keys copied straight out of .env.example
// ("your_api_key_here") the same as no key at all.
func isPlaceholder(apiKey string) bool {
	return apiKey == "" || strings.Contains(strings.ToLower(apiKey), "your_")
}

func (c *Client) Configured() bool {
	return c != nil && c.client != nil
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", errors.New("gemini client not configured")
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Status: apiErr.Code, Err: err}
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	c.log.Debug("Gemini call completed", "model", c.model, "elapsed", time.Since(start), "response_chars", len(text))
	return text, nil
}
