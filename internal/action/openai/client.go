// Package openai implements the narration generator over the OpenAI chat
// completions API with structured JSON output. The client is rate limited
// and every failure mode (transport, refusal, unparsable output) surfaces as
// an error the action provider treats as retryable.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"matchday/internal/action"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the completion model used for narration.
	DefaultModel = "gpt-4o-2024-08-06"
)

// Client generates action blueprints through chat completions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited generator client.
func NewClient(baseURL, apiKey, model string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	// Non-positive RPM means no throttling; a zero rate would make every
	// Wait block until its deadline.
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// --------------------------------------------------------------------------
// Wire types
// --------------------------------------------------------------------------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string  `json:"content"`
			Refusal *string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

// blueprintPayload is the structured output the model is constrained to.
type blueprintPayload struct {
	Phrases          []string `json:"phrases"`
	PlayerEvaluation []struct {
		PlayerPlaceholder string `json:"player_placeholder"`
		Evaluation        int    `json:"evaluation"`
	} `json:"player_evaluation"`
	ScorerPlayer *string `json:"scorer_player"`
	AssistPlayer *string `json:"assist_player"`
}

// Generate builds the narration prompt for the request, calls the API, and
// maps the structured response onto a blueprint. The returned blueprint is
// not yet validated; the provider validates before use.
func (c *Client) Generate(ctx context.Context, req action.Request) (*action.Blueprint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(req)}},
		ResponseFormat: json.RawMessage(responseFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat completion returned %d: %s",
			resp.StatusCode, truncate(respBody, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	msg := parsed.Choices[0].Message
	if msg.Refusal != nil && *msg.Refusal != "" {
		return nil, fmt.Errorf("model refused request: %s", *msg.Refusal)
	}

	var payload blueprintPayload
	if err := json.Unmarshal([]byte(msg.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}

	return payloadToBlueprint(req, payload), nil
}

// payloadToBlueprint maps the model's structured output onto the engine
// contract, normalizing brace-wrapped roles the model tends to produce.
func payloadToBlueprint(req action.Request, p blueprintPayload) *action.Blueprint {
	evaluations := make(map[string]int, len(p.PlayerEvaluation))
	for _, e := range p.PlayerEvaluation {
		evaluations[action.TrimRole(e.PlayerPlaceholder)] = e.Evaluation
	}
	return &action.Blueprint{
		Outcome:          req.Outcome,
		UseVAR:           req.UseVAR,
		Phrases:          p.Phrases,
		PlayerEvaluation: evaluations,
		Scorer:           trimRolePtr(p.ScorerPlayer),
		Assist:           trimRolePtr(p.AssistPlayer),
	}
}

func trimRolePtr(role *string) *string {
	if role == nil {
		return nil
	}
	trimmed := action.TrimRole(*role)
	return &trimmed
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

// responseFormat constrains the model to the blueprint payload shape.
const responseFormat = `{
  "type": "json_schema",
  "json_schema": {
    "name": "action_blueprint",
    "strict": true,
    "schema": {
      "type": "object",
      "additionalProperties": false,
      "required": ["phrases", "player_evaluation", "scorer_player", "assist_player"],
      "properties": {
        "phrases": {"type": "array", "items": {"type": "string"}},
        "player_evaluation": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["player_placeholder", "evaluation"],
            "properties": {
              "player_placeholder": {"type": "string"},
              "evaluation": {"type": "integer"}
            }
          }
        },
        "scorer_player": {"type": ["string", "null"]},
        "assist_player": {"type": ["string", "null"]}
      }
    }
  }
}`
