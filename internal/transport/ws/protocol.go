package ws

import (
	"encoding/json"

	"github.com/obeidat/hrdesk/internal/domain"
)

// Frame types for the WebSocket protocol.
const (
	// client → server
	FrameTypeConnect  = "connect"
	FrameTypeMessage  = "message"
	FrameTypeDecision = "decision"

	// server → client
	FrameTypeConnected = "connected"
	FrameTypeAction    = "action"
	FrameTypeTyping    = "typing"
	FrameTypeError     = "error"
)

// Frame is the envelope for all WebSocket messages. The Type field
// discriminates the variant; unused fields stay empty.
type Frame struct {
	Type string `json:"type"`

	// connect
	Token       string `json:"token,omitempty"`
	ExternalID  string `json:"externalId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`

	// message
	ID   string `json:"id,omitempty"`
	Body string `json:"body,omitempty"`

	// decision; Token above carries the confirmation token, round-tripped
	// exactly as received in the confirmation action
	Approved *bool `json:"approved,omitempty"`

	// action
	Action *domain.Action `json:"action,omitempty"`

	// connected
	Protocol int         `json:"protocol,omitempty"`
	Server   *ServerInfo `json:"server,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ServerInfo identifies the gateway in the connected frame.
type ServerInfo struct {
	Version string `json:"version"`
	ConnID  string `json:"connId"`
}

// Protocol version supported by this server.
const ProtocolVersion = 1

// NewActionFrame wraps a dispatch outcome for delivery.
func NewActionFrame(act domain.Action) Frame {
	return Frame{Type: FrameTypeAction, Action: &act}
}

// NewErrorFrame builds an error frame.
func NewErrorFrame(code, message string) Frame {
	return Frame{Type: FrameTypeError, Code: code, Message: message}
}

// DecodeFrame parses a raw WebSocket payload into a frame.
func DecodeFrame(raw []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(raw, &f)
	return f, err
}
