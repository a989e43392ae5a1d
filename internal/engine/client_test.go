package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/logging"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

// --- Registry tests ---

func TestRegistry_ResolveDirect(t *testing.T) {
	reg := NewRegistry(silentLog())
	mock := &MockClient{ProviderName: "mock"}
	reg.Register("mock", mock)

	c, err := reg.Resolve("mock")
	require.NoError(t, err)
	assert.Equal(t, mock, c)
}

func TestRegistry_ResolveAlias(t *testing.T) {
	reg := NewRegistry(silentLog())
	mock := &MockClient{ProviderName: "openrouter"}
	reg.Register("openrouter", mock)
	reg.Alias("google/gemma-3-27b-it:free", "openrouter")

	c, err := reg.Resolve("google/gemma-3-27b-it:free")
	require.NoError(t, err)
	assert.Equal(t, mock, c)
}

func TestRegistry_ResolveFallback(t *testing.T) {
	reg := NewRegistry(silentLog())
	mock := &MockClient{ProviderName: "openrouter"}
	reg.Register("openrouter", mock)
	reg.SetFallback("openrouter")

	c, err := reg.Resolve("anything-else")
	require.NoError(t, err)
	assert.Equal(t, mock, c)
}

func TestRegistry_ResolveNoMatch(t *testing.T) {
	reg := NewRegistry(silentLog())
	_, err := reg.Resolve("ghost")
	assert.Error(t, err)
}

func TestNewClientFromConfig_Mock(t *testing.T) {
	c, err := NewClientFromConfig(config.EngineConfig{Provider: "mock"}, silentLog())
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())
}

func TestNewClientFromConfig_OpenRouterNeedsKey(t *testing.T) {
	_, err := NewClientFromConfig(config.EngineConfig{Provider: "openrouter"}, silentLog())
	assert.Error(t, err)
}

func TestNewClientFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewClientFromConfig(config.EngineConfig{Provider: "carrier-pigeon"}, silentLog())
	assert.Error(t, err)
}

func TestNewRegistryFromConfig_RegistersEveryModel(t *testing.T) {
	reg, err := NewRegistryFromConfig(config.EngineConfig{
		Provider:  "openrouter",
		APIKey:    "k",
		Model:     "google/gemma-3-27b-it:free",
		Fallbacks: []string{"meta-llama/llama-3.3-70b-instruct:free"},
	}, silentLog())
	require.NoError(t, err)

	assert.Len(t, reg.List(), 2)
	// The last two exercise the alias for the primary and the fallback.
	for _, model := range []string{
		"google/gemma-3-27b-it:free",
		"meta-llama/llama-3.3-70b-instruct:free",
		"default",
		"never-heard",
	} {
		c, err := reg.Resolve(model)
		require.NoError(t, err, model)
		assert.Equal(t, "openrouter", c.Name())
	}
}

func TestNewClientFromConfig_FallbacksResolveThroughRegistry(t *testing.T) {
	c, err := NewClientFromConfig(config.EngineConfig{
		Provider:  "mock",
		Model:     "primary",
		Fallbacks: []string{"backup"},
	}, silentLog())
	require.NoError(t, err)

	f, ok := c.(*FailoverClient)
	require.True(t, ok)
	assert.Equal(t, "primary", f.primary)
	assert.Equal(t, []string{"backup"}, f.fallbacks)

	rc, err := f.registry.Resolve("primary")
	require.NoError(t, err)
	assert.Equal(t, "mock", rc.Name())
}

// --- Failover tests ---

// failoverOver registers the given clients under their model names and
// wires a failover chain over the resulting registry.
func failoverOver(models []string, clients ...Client) *FailoverClient {
	reg := NewRegistry(silentLog())
	for i, m := range models {
		if i < len(clients) {
			reg.Register(m, clients[i])
		}
	}
	return NewFailoverClient(reg, models[0], models[1:], silentLog())
}

func TestFailover_FirstSuccessWins(t *testing.T) {
	primary := &MockClient{ProviderName: "a", RespondFunc: func(context.Context, Request) (*Result, error) {
		return &Result{Text: "from a"}, nil
	}}
	secondary := &MockClient{ProviderName: "b", RespondFunc: func(context.Context, Request) (*Result, error) {
		t.Fatal("secondary must not be called when primary succeeds")
		return nil, nil
	}}

	f := failoverOver([]string{"a", "b"}, primary, secondary)
	res, err := f.Respond(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "from a", res.Text)
}

func TestFailover_RetryableMovesOn(t *testing.T) {
	primary := &MockClient{ProviderName: "a", RespondFunc: func(context.Context, Request) (*Result, error) {
		return nil, &ProviderError{Provider: "a", Message: "rate limited", Code: 429}
	}}
	secondary := &MockClient{ProviderName: "b", RespondFunc: func(_ context.Context, req Request) (*Result, error) {
		assert.Equal(t, "b", req.Model)
		return &Result{Text: "from b"}, nil
	}}

	f := failoverOver([]string{"a", "b"}, primary, secondary)
	res, err := f.Respond(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "from b", res.Text)
}

func TestFailover_UnresolvedModelSkips(t *testing.T) {
	secondary := &MockClient{ProviderName: "b", RespondFunc: func(context.Context, Request) (*Result, error) {
		return &Result{Text: "from b"}, nil
	}}

	reg := NewRegistry(silentLog())
	reg.Register("b", secondary)
	f := NewFailoverClient(reg, "ghost", []string{"b"}, silentLog())

	res, err := f.Respond(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "from b", res.Text)
}

func TestFailover_AuthErrorStopsChain(t *testing.T) {
	primary := &MockClient{ProviderName: "a", RespondFunc: func(context.Context, Request) (*Result, error) {
		return nil, &ProviderError{Provider: "a", Message: "bad key", Code: 401}
	}}
	var secondaryCalled bool
	secondary := &MockClient{ProviderName: "b", RespondFunc: func(context.Context, Request) (*Result, error) {
		secondaryCalled = true
		return &Result{Text: "from b"}, nil
	}}

	f := failoverOver([]string{"a", "b"}, primary, secondary)
	_, err := f.Respond(context.Background(), Request{})
	require.Error(t, err)
	assert.False(t, secondaryCalled)
}

func TestFailover_AllFail(t *testing.T) {
	failing := func(name string) Client {
		return &MockClient{ProviderName: name, RespondFunc: func(context.Context, Request) (*Result, error) {
			return nil, &ProviderError{Provider: name, Message: "down", Code: 503}
		}}
	}

	f := failoverOver([]string{"a", "b"}, failing("a"), failing("b"))
	_, err := f.Respond(context.Background(), Request{})
	assert.Error(t, err)
}

func TestFailover_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &MockClient{ProviderName: "a", RespondFunc: func(context.Context, Request) (*Result, error) {
		cancel()
		return nil, &ProviderError{Provider: "a", Message: "down", Code: 503}
	}}
	var secondaryCalled bool
	secondary := &MockClient{ProviderName: "b", RespondFunc: func(context.Context, Request) (*Result, error) {
		secondaryCalled = true
		return nil, nil
	}}

	f := failoverOver([]string{"a", "b"}, primary, secondary)
	_, err := f.Respond(ctx, Request{})
	require.Error(t, err)
	assert.False(t, secondaryCalled)
}

// --- Invocation extraction tests ---

func TestExtractInvocation_FencedBlock(t *testing.T) {
	text := "Let me check that.\n```tool_call\n{\"name\": \"leave_balance\", \"args\": {}}\n```\nOne moment."

	inv, cleaned := ExtractInvocation(text)
	require.NotNil(t, inv)
	assert.Equal(t, "leave_balance", inv.Name)
	assert.JSONEq(t, "{}", string(inv.Args))
	assert.Equal(t, "Let me check that.\n\nOne moment.", cleaned)
}

func TestExtractInvocation_WithArgs(t *testing.T) {
	text := "```tool_call\n{\"name\": \"colleague_info\", \"args\": {\"fullName\": \"Omar Khalil\"}}\n```"

	inv, _ := ExtractInvocation(text)
	require.NotNil(t, inv)

	var args map[string]string
	require.NoError(t, json.Unmarshal(inv.Args, &args))
	assert.Equal(t, "Omar Khalil", args["fullName"])
}

func TestExtractInvocation_NoBlock(t *testing.T) {
	inv, cleaned := ExtractInvocation("just a normal reply")
	assert.Nil(t, inv)
	assert.Equal(t, "just a normal reply", cleaned)
}

func TestExtractInvocation_MalformedJSON(t *testing.T) {
	text := "```tool_call\nnot json\n```"
	inv, cleaned := ExtractInvocation(text)
	assert.Nil(t, inv)
	assert.Equal(t, text, cleaned)
}

func TestExtractInvocation_UnterminatedBlock(t *testing.T) {
	text := "```tool_call\n{\"name\": \"x\"}"
	inv, _ := ExtractInvocation(text)
	assert.Nil(t, inv)
}

// --- OpenRouter client tests ---

func TestOpenRouter_Respond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "google/gemma-3-27b-it:free", body["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"model": "google/gemma-3-27b-it:free",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "مرحبا! How can I help?"}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 8},
		})
	}))
	defer srv.Close()

	c := NewOpenRouterClient("test-key", "google/gemma-3-27b-it:free", srv.URL)
	res, err := c.Respond(context.Background(), Request{
		System:   "You are an HR assistant.",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "مرحبا! How can I help?", res.Text)
	assert.Nil(t, res.Invocation)
	assert.Equal(t, 12, res.Usage.InputTokens)
}

func TestOpenRouter_NativeToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "",
					"tool_calls": []map[string]any{
						{"id": "call_1", "type": "function", "function": map[string]string{
							"name":      "my_profile",
							"arguments": "{}",
						}},
					},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenRouterClient("k", "m", srv.URL)
	res, err := c.Respond(context.Background(), Request{})
	require.NoError(t, err)
	require.NotNil(t, res.Invocation)
	assert.Equal(t, "my_profile", res.Invocation.Name)
}

func TestOpenRouter_FencedToolCallInText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "```tool_call\n{\"name\": \"leave_balance\", \"args\": {}}\n```",
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenRouterClient("k", "m", srv.URL)
	res, err := c.Respond(context.Background(), Request{})
	require.NoError(t, err)
	require.NotNil(t, res.Invocation)
	assert.Equal(t, "leave_balance", res.Invocation.Name)
	assert.Empty(t, res.Text)
}

func TestOpenRouter_ErrorStatusBecomesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenRouterClient("k", "m", srv.URL)
	_, err := c.Respond(context.Background(), Request{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 429, pe.Code)
	assert.True(t, isRetryable(err))
}

func TestOpenRouter_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewOpenRouterClient("k", "m", srv.URL)
	_, err := c.Respond(context.Background(), Request{})
	assert.Error(t, err)
}
