// Package action translates raw tool output into typed dispatch actions.
//
// Tools speak a sentinel-prefixed string protocol: a result is either
// plain content or a known prefix followed by a payload. The sentinel
// encoding stays inside this package; everything past the decoder works
// with the typed Action variant.
package action

import (
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/domain"
)

// Sentinel prefixes understood by the decoder.
const (
	markerSendPDF        = "ACTION_SEND_PDF:"
	markerConfirmLeave   = "ACTION_CONFIRM_LEAVE:"
	markerConfirmOnboard = "ACTION_CONFIRM_ONBOARD:"
)

// markerTag is the substring shared by every sentinel. Generated text
// containing it is narrating internal protocol and must be suppressed.
const markerTag = "ACTION_"

// DecodeToolResult maps a raw tool result to an action. Strings with no
// known sentinel prefix are structured text shown verbatim. A recognized
// prefix with a malformed payload is a protocol error, not a reply.
func DecodeToolResult(raw string) (domain.Action, error) {
	trimmed := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(trimmed, markerSendPDF):
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, markerSendPDF))
		if path == "" {
			return domain.Action{}, fmt.Errorf("%w: empty document path", domain.ErrProtocolDecode)
		}
		return domain.Document(path), nil

	case strings.HasPrefix(trimmed, markerConfirmLeave):
		return decodeConfirmation(strings.TrimPrefix(trimmed, markerConfirmLeave))

	case strings.HasPrefix(trimmed, markerConfirmOnboard):
		return decodeConfirmation(strings.TrimPrefix(trimmed, markerConfirmOnboard))

	default:
		return domain.StructuredText(raw), nil
	}
}

// DecodeGenerated maps engine free text to a reply action.
func DecodeGenerated(text string) domain.Action {
	return domain.Reply(text)
}

// ContainsMarker reports whether generated text mentions the internal
// action protocol.
func ContainsMarker(text string) bool {
	return strings.Contains(text, markerTag)
}

// decodeConfirmation parses a "token|summary" confirmation payload. The
// summary may itself contain the delimiter.
func decodeConfirmation(payload string) (domain.Action, error) {
	token, summary, found := strings.Cut(strings.TrimSpace(payload), "|")
	if !found || token == "" || summary == "" {
		return domain.Action{}, fmt.Errorf("%w: malformed confirmation payload", domain.ErrProtocolDecode)
	}
	return domain.Confirmation(token, summary), nil
}
