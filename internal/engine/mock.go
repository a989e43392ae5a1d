package engine

import "context"

// MockClient is a test double for Client.
type MockClient struct {
	ProviderName string
	RespondFunc  func(ctx context.Context, req Request) (*Result, error)
}

func (m *MockClient) Name() string { return m.ProviderName }

func (m *MockClient) Respond(ctx context.Context, req Request) (*Result, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, req)
	}
	return &Result{Text: "mock response"}, nil
}
