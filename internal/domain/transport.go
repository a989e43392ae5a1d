package domain

import "context"

// TransportStatus reports the runtime state of a transport.
type TransportStatus struct {
	TransportID string `json:"transportId"`
	Connected   bool   `json:"connected"`
	Running     bool   `json:"running"`
	LastError   string `json:"lastError,omitempty"`
}

// Transport is a chat delivery integration. It feeds inbound messages to
// the dispatcher and renders the resulting Action values back to the user.
// Implementations must round-trip confirmation tokens unchanged between
// an ActionConfirmation delivery and the user's Decision.
type Transport interface {
	// ID returns the transport identifier (e.g., "gateway").
	ID() string

	// Start connects the transport and begins listening for messages.
	Start(ctx context.Context) error

	// Stop gracefully disconnects the transport.
	Stop(ctx context.Context) error

	// Deliver renders an action to the given external account.
	Deliver(ctx context.Context, externalID string, act Action) error

	// Typing signals to the user that a dispatch cycle is in flight.
	// Transports without a typing affordance may make this a no-op.
	Typing(ctx context.Context, externalID string) error

	// OnMessage registers the handler for inbound messages.
	OnMessage(handler func(msg InboundMessage))
}
