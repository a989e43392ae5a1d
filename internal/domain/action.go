package domain

// ActionKind discriminates the Action variant.
type ActionKind string

const (
	// ActionReply is plain conversational text to show the user.
	ActionReply ActionKind = "reply"
	// ActionDocument is a generated artifact to deliver as a file.
	ActionDocument ActionKind = "document"
	// ActionConfirmation is a proposed irreversible operation awaiting
	// the user's explicit confirm or cancel choice.
	ActionConfirmation ActionKind = "confirmation"
	// ActionStructuredText is a deterministic, pre-formatted tool result
	// to display verbatim.
	ActionStructuredText ActionKind = "structured"
	// ActionDenied means the request was blocked before processing.
	ActionDenied ActionKind = "denied"
)

// Action is the decoded outcome of one dispatch cycle. Exactly one
// variant's fields are populated, selected by Kind.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Reply / StructuredText
	Text string `json:"text,omitempty"`

	// Document
	Path string `json:"path,omitempty"`

	// Confirmation
	Token   string `json:"token,omitempty"`
	Summary string `json:"summary,omitempty"`

	// Denied
	Reason string `json:"reason,omitempty"`
}

// Reply builds a conversational text action.
func Reply(text string) Action {
	return Action{Kind: ActionReply, Text: text}
}

// Document builds a file-delivery action for the given artifact path.
func Document(path string) Action {
	return Action{Kind: ActionDocument, Path: path}
}

// Confirmation builds a confirm/cancel prompt carrying an opaque token.
// The transport must round-trip the token unchanged into the user's choice.
func Confirmation(token, summary string) Action {
	return Action{Kind: ActionConfirmation, Token: token, Summary: summary}
}

// StructuredText builds a verbatim-display action for a tool result.
func StructuredText(text string) Action {
	return Action{Kind: ActionStructuredText, Text: text}
}

// Denied builds a blocked-request action with a user-facing reason.
func Denied(reason string) Action {
	return Action{Kind: ActionDenied, Reason: reason}
}
