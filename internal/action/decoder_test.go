package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obeidat/hrdesk/internal/domain"
)

func TestDecodeToolResult_PlainTextIsStructured(t *testing.T) {
	a, err := DecodeToolResult("Employee Profile\nName: Omar Khalil")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionStructuredText, a.Kind)
	assert.Contains(t, a.Text, "Omar Khalil")
}

func TestDecodeToolResult_SendPDF(t *testing.T) {
	a, err := DecodeToolResult(EncodeSendPDF("/tmp/reports/leave_7.html"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDocument, a.Kind)
	assert.Equal(t, "/tmp/reports/leave_7.html", a.Path)
}

func TestDecodeToolResult_SendPDF_EmptyPath(t *testing.T) {
	_, err := DecodeToolResult("ACTION_SEND_PDF:")
	assert.ErrorIs(t, err, domain.ErrProtocolDecode)
}

func TestDecodeToolResult_ConfirmLeave(t *testing.T) {
	raw := EncodeConfirmLeave("tok-123", "Annual leave 2026-03-02 to 2026-03-06")
	a, err := DecodeToolResult(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionConfirmation, a.Kind)
	assert.Equal(t, "tok-123", a.Token)
	assert.Equal(t, "Annual leave 2026-03-02 to 2026-03-06", a.Summary)
}

func TestDecodeToolResult_ConfirmOnboard(t *testing.T) {
	a, err := DecodeToolResult(EncodeConfirmOnboard("tok-9", "Onboard Rana Saleh | rana@corp.example"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionConfirmation, a.Kind)
	assert.Equal(t, "tok-9", a.Token)
	// Delimiters inside the summary survive the round trip.
	assert.Equal(t, "Onboard Rana Saleh | rana@corp.example", a.Summary)
}

func TestDecodeToolResult_ConfirmMalformed(t *testing.T) {
	for _, raw := range []string{
		"ACTION_CONFIRM_LEAVE:",
		"ACTION_CONFIRM_LEAVE:token-only",
		"ACTION_CONFIRM_LEAVE:|summary-only",
	} {
		_, err := DecodeToolResult(raw)
		assert.ErrorIs(t, err, domain.ErrProtocolDecode, "raw=%q", raw)
	}
}

func TestDecodeToolResult_UnknownMarkerIsStructured(t *testing.T) {
	// Unknown ACTION_ prefixes are not part of the protocol; the string
	// is ordinary tool output.
	a, err := DecodeToolResult("ACTION_TELEPORT:somewhere")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionStructuredText, a.Kind)
}

func TestDecodeGenerated(t *testing.T) {
	a := DecodeGenerated("Happy to help!")
	assert.Equal(t, domain.ActionReply, a.Kind)
	assert.Equal(t, "Happy to help!", a.Text)
}

func TestContainsMarker(t *testing.T) {
	assert.True(t, ContainsMarker("I will now emit ACTION_SEND_PDF: for you"))
	assert.True(t, ContainsMarker("ACTION_CONFIRM_LEAVE:abc|def"))
	assert.False(t, ContainsMarker("your leave was approved"))
}
