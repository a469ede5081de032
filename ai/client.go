package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	defaultPrimaryModel  = "claude-sonnet-4-5"
	defaultFallbackModel = "claude-3-5-haiku-latest"

	// retryTokenCeiling caps the enlarged budget used for the
	// invalid-JSON retry. Tunable; inherited from production tuning
	// rather than any derivation.
	retryTokenCeiling = 2400
	retryTokenStep    = 400

	// The model call is the highest-latency step of a run, so it gets
	// its own wall-clock budget. A timeout counts as model-unavailable
	// for fallback purposes.
	defaultRequestTimeout = 90 * time.Second
)

// ResponseSchema is a JSON-schema object declared with the request to
// constrain the model's output shape.
type ResponseSchema map[string]interface{}

// GenerateRequest is one structured-JSON generation request.
type GenerateRequest struct {
	Prompt             string
	MaxOutputTokens    int64
	ResponseSchema     ResponseSchema
	InvalidJSONRetries int
}

// Generator produces a parsed JSON value for a prompt. The orchestrator
// depends on this interface so tests can substitute a deterministic
// fake instead of a live model.
type Generator interface {
	GenerateJSON(ctx context.Context, req GenerateRequest) (interface{}, error)
}

// invoker performs a single raw model call and returns the text body.
type invoker interface {
	invoke(ctx context.Context, model string, maxOutputTokens int64, prompt string, schema ResponseSchema) (string, error)
}

// Client generates structured JSON insights against a primary model,
// falling back once to a configured secondary model when the primary is
// unavailable, and retrying once with a larger token budget when the
// body fails to parse. The two retry axes are independent: an
// unavailable model never consumes the invalid-JSON retry, and vice
// versa.
type Client struct {
	invoker        invoker
	primaryModel   string
	fallbackModel  string // empty when no distinct fallback is configured
	requestTimeout time.Duration
}

// Ensure Client implements Generator
var _ Generator = (*Client)(nil)

// NewClientFromEnv builds a Client from INSIGHT_MODEL and
// INSIGHT_FALLBACK_MODEL. The Anthropic SDK reads ANTHROPIC_API_KEY
// itself.
func NewClientFromEnv() *Client {
	primary := strings.TrimSpace(os.Getenv("INSIGHT_MODEL"))
	if primary == "" {
		primary = defaultPrimaryModel
	}

	fallback := strings.TrimSpace(os.Getenv("INSIGHT_FALLBACK_MODEL"))
	if fallback == "" {
		fallback = defaultFallbackModel
	}
	if fallback == primary {
		fallback = ""
	}

	anthropicClient := anthropic.NewClient()
	return &Client{
		invoker:        &anthropicInvoker{client: anthropicClient},
		primaryModel:   primary,
		fallbackModel:  fallback,
		requestTimeout: defaultRequestTimeout,
	}
}

// retryTokenBudget grows the budget for the invalid-JSON retry: at
// least one step beyond the original, at most double, capped.
func retryTokenBudget(originalBudget int64) int64 {
	enlarged := originalBudget * 2
	if originalBudget+retryTokenStep > enlarged {
		enlarged = originalBudget + retryTokenStep
	}
	if enlarged > retryTokenCeiling {
		enlarged = retryTokenCeiling
	}
	return enlarged
}

// isModelUnavailable reports whether the error means the selected model
// cannot serve the request at all: a not-found class API error, or a
// request that exceeded its wall-clock budget.
func isModelUnavailable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "not_found_error")
}

func isInvalidJSON(err error) bool {
	var invalidErr *invalidJSONError
	return errors.As(err, &invalidErr)
}

func (c *Client) attempt(ctx context.Context, model string, maxOutputTokens int64, req GenerateRequest) (interface{}, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	text, err := c.invoker.invoke(callCtx, model, maxOutputTokens, req.Prompt, req.ResponseSchema)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("model '%s' returned an empty response body", model)
	}

	return parseModelJSON(text)
}

// GenerateJSON runs the two-axis retry described on Client and returns
// the parsed JSON value of the first successful attempt.
func (c *Client) GenerateJSON(ctx context.Context, req GenerateRequest) (interface{}, error) {
	selectedModel := c.primaryModel

	parsed, err := c.attempt(ctx, selectedModel, req.MaxOutputTokens, req)
	if err == nil {
		return parsed, nil
	}

	if isModelUnavailable(err) && c.fallbackModel != "" {
		log.Printf("⚠️ Insight model '%s' unavailable, retrying with '%s': %v", selectedModel, c.fallbackModel, err)
		selectedModel = c.fallbackModel
		parsed, err = c.attempt(ctx, selectedModel, req.MaxOutputTokens, req)
		if err == nil {
			return parsed, nil
		}
	}

	if isInvalidJSON(err) && req.InvalidJSONRetries > 0 {
		enlargedBudget := retryTokenBudget(req.MaxOutputTokens)
		log.Printf("⚠️ Invalid JSON from '%s', retrying once with token budget %d", selectedModel, enlargedBudget)
		return c.attempt(ctx, selectedModel, enlargedBudget, req)
	}

	return nil, err
}

// anthropicInvoker is the live Messages API binding.
type anthropicInvoker struct {
	client anthropic.Client
}

func (a *anthropicInvoker) invoke(ctx context.Context, model string, maxOutputTokens int64, prompt string, schema ResponseSchema) (string, error) {
	system := "Respond with a single JSON object and nothing else. No prose, no markdown fences."
	if schema != nil {
		if schemaJSON, err := json.Marshal(schema); err == nil {
			system = fmt.Sprintf(
				"Respond with a single JSON object conforming to this JSON schema and nothing else. No prose, no markdown fences.\nSchema: %s",
				schemaJSON,
			)
		}
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var body strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			body.WriteString(block.Text)
		}
	}
	return body.String(), nil
}
