package domain

import "time"

// TurnRole identifies who produced a conversation turn.
type TurnRole string

const (
	TurnUser  TurnRole = "user"
	TurnAgent TurnRole = "agent"
	TurnTool  TurnRole = "tool"
)

// Turn is a single entry in an employee's conversation history.
// Insertion order is the only meaningful order.
type Turn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Decision is the user's answer to a pending confirmation prompt,
// carrying the token exactly as the transport received it.
type Decision struct {
	Token    string `json:"token"`
	Approved bool   `json:"approved"`
}

// InboundMessage is one message received from a transport.
type InboundMessage struct {
	ID          string    `json:"id"`
	TransportID string    `json:"transportId"`
	ExternalID  string    `json:"externalId"`
	SenderName  string    `json:"senderName,omitempty"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`

	// Decision is set when the message is a confirm/cancel choice rather
	// than free text.
	Decision *Decision `json:"decision,omitempty"`
}
