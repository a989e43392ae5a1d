package domain

import "errors"

// Error taxonomy for dispatch cycles. Tool and engine boundaries convert
// these into user-facing actions; they never escape a cycle as panics.
var (
	// ErrAccessDenied: unknown identity, or an authorization failure
	// inside a tool.
	ErrAccessDenied = errors.New("access denied")

	// ErrInputRejected: the input filter classified the text as suspicious.
	ErrInputRejected = errors.New("input rejected")

	// ErrToolArgument: the reasoning engine omitted or malformed a
	// required tool argument.
	ErrToolArgument = errors.New("invalid tool argument")

	// ErrToolExecution: a data-access collaborator behind a tool failed.
	ErrToolExecution = errors.New("tool execution fault")

	// ErrProtocolDecode: unrecognized sentinel shape or malformed
	// confirmation payload.
	ErrProtocolDecode = errors.New("protocol decode error")

	// ErrEngine: the reasoning-engine collaborator was unreachable or
	// returned an error.
	ErrEngine = errors.New("engine fault")
)
