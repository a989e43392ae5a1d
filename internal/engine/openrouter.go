package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenRouterEndpoint is the chat completions URL used when no
// endpoint override is configured.
const DefaultOpenRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterClient is a direct HTTP client for the OpenRouter chat
// completions API.
type OpenRouterClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenRouterClient creates a new OpenRouter client. An empty endpoint
// selects the public API.
func NewOpenRouterClient(apiKey, model, endpoint string) *OpenRouterClient {
	if endpoint == "" {
		endpoint = DefaultOpenRouterEndpoint
	}
	return &OpenRouterClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider name.
func (c *OpenRouterClient) Name() string {
	return "openrouter"
}

// Respond sends a chat completion request and returns the engine's move.
// Tool invocations arrive either as native tool_calls or, for models
// without native tool support, as a fenced tool_call block in the text;
// both map to a Result.Invocation.
func (c *OpenRouterClient) Respond(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	payload, err := json.Marshal(c.buildRequestBody(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider: c.Name(),
			Message:  strings.TrimSpace(string(respBody)),
			Code:     resp.StatusCode,
		}
	}

	var result openRouterResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, &ProviderError{Provider: c.Name(), Message: "empty choices in response", Code: 502}
	}

	return c.choiceToResult(&result, time.Since(start)), nil
}

// Helper methods

func (c *OpenRouterClient) buildRequestBody(req Request) map[string]any {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]map[string]string, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": RoleSystem, "content": req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}

	body := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if len(req.Tools) > 0 {
		tools := make([]map[string]any, len(req.Tools))
		for i, t := range req.Tools {
			tools[i] = map[string]any{
				"type": "function",
				"function": map[string]any{
					"name":        t.Name,
					"description": t.Description,
					"parameters":  parseJSONSchema(t.InputSchema),
				},
			}
		}
		body["tools"] = tools
	}

	return body
}

func (c *OpenRouterClient) choiceToResult(resp *openRouterResponse, duration time.Duration) *Result {
	choice := resp.Choices[0]

	res := &Result{
		Text:     choice.Message.Content,
		Model:    resp.Model,
		Duration: duration,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}

	// Native tool calls win; only the first is honored.
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		res.Invocation = &Invocation{
			Name: tc.Function.Name,
			Args: json.RawMessage(tc.Function.Arguments),
		}
		return res
	}

	// Models without native tool support emit a fenced block instead.
	if inv, cleaned := ExtractInvocation(choice.Message.Content); inv != nil {
		res.Invocation = inv
		res.Text = cleaned
	}

	return res
}

// parseJSONSchema parses a JSON Schema string into a generic map, falling
// back to a permissive object schema on bad input.
func parseJSONSchema(schema string) map[string]any {
	if schema == "" {
		return map[string]any{"type": "object"}
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(schema), &parsed); err != nil {
		return map[string]any{"type": "object"}
	}
	return parsed
}

// API response structures

type openRouterResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openRouterChoice `json:"choices"`
	Usage   openRouterUsage    `json:"usage"`
}

type openRouterChoice struct {
	Message      openRouterMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type openRouterMessage struct {
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	ToolCalls []openRouterToolCall `json:"tool_calls,omitempty"`
}

type openRouterToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openRouterUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}
