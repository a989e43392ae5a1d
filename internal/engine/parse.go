package engine

import (
	"encoding/json"
	"strings"
)

// toolCallFence opens a fenced tool invocation block in generated text.
// The block body is a JSON object: {"name": "...", "args": {...}}.
const toolCallFence = "```tool_call"

// ExtractInvocation pulls a fenced tool_call block out of generated text.
// Returns the invocation and the text with the block removed, or
// (nil, text) when no well-formed block is present. Only the first block
// is honored; one Respond yields at most one invocation.
func ExtractInvocation(text string) (*Invocation, string) {
	start := strings.Index(text, toolCallFence)
	if start < 0 {
		return nil, text
	}

	bodyStart := start + len(toolCallFence)
	end := strings.Index(text[bodyStart:], "```")
	if end < 0 {
		return nil, text
	}

	body := strings.TrimSpace(text[bodyStart : bodyStart+end])

	var inv Invocation
	if err := json.Unmarshal([]byte(body), &inv); err != nil || inv.Name == "" {
		return nil, text
	}
	if len(inv.Args) == 0 {
		inv.Args = json.RawMessage("{}")
	}

	cleaned := text[:start] + text[bodyStart+end+3:]
	return &inv, strings.TrimSpace(cleaned)
}
