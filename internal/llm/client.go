// Package llm talks to the text-generation backend behind the AI tools.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"codelearn/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the backend answers without text.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// Config describes the HTTP generation backend.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Client posts prompts to an HTTP completion endpoint.
type Client struct {
	cfg Config
}

// NewClient returns a Client for cfg. A zero timeout means 30 seconds.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg}
}

// New returns the HTTP client when an endpoint is configured and the canned
// MockClient otherwise.
func New(cfg Config) Generator {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return &MockClient{}
	}
	return NewClient(cfg)
}

type completionRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Completion string `json:"completion"`
	Text       string `json:"text"`
}

// agentCarrier lets the OTel propagator write trace headers onto an outgoing request.
type agentCarrier struct {
	agent *fiber.Agent
}

func (c agentCarrier) Get(string) string { return "" }

func (c agentCarrier) Set(key, value string) { c.agent.Set(key, value) }

func (c agentCarrier) Keys() []string { return nil }

// Generate sends prompt to the backend and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := observability.StartClientSpan(ctx, "llm", "generate",
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)
	start := time.Now()

	text, err := c.do(ctx, prompt)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.LLMRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)
	return text, err
}

func (c *Client) do(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	agent := fiber.Post(c.cfg.Endpoint).
		JSON(completionRequest{Model: c.cfg.Model, Prompt: prompt}).
		Timeout(c.cfg.Timeout)
	if c.cfg.APIKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.cfg.APIKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, agentCarrier{agent: agent})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("llm request: %w", errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("llm request: unexpected status %d", status)
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm response: %w", err)
	}

	text := resp.Completion
	if text == "" {
		text = resp.Text
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
