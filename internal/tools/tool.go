// Package tools implements the fixed set of deterministic HR operations
// the agent can select. Each tool validates its own arguments, owns its
// authorization decision, and speaks the sentinel string protocol back
// to the dispatcher.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/engine"
	"github.com/obeidat/hrdesk/internal/logging"
)

// Tool is one named backend operation the engine can invoke.
type Tool interface {
	Name() string
	Description() string
	InputSchema() string // JSON Schema

	// Invoke runs the operation for the resolved identity. The returned
	// string is either user-facing content or a sentinel-tagged result.
	Invoke(ctx context.Context, identity domain.Identity, args json.RawMessage) (string, error)
}

// User-facing fault strings for the tool boundary.
const (
	msgUnknownTool = "❌ Unknown Operation | عملية غير معروفة\nThat operation is not available.\nهذه العملية غير متاحة."
	msgBadArgs     = "⚠️ Missing or Invalid Details | بيانات ناقصة أو غير صحيحة\nPlease provide the required details and try again.\nيرجى التأكد من البيانات والمحاولة مرة أخرى."
	msgToolFault   = "❌ System Error | خطأ في النظام\nThe operation could not be completed right now. Please try again later.\nتعذر إتمام العملية حالياً، يرجى المحاولة لاحقاً."
)

// Registry holds the tools offered to the engine.
type Registry struct {
	tools map[string]Tool
	order []string
	log   *logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		tools: make(map[string]Tool),
		log:   log.Sub("tools"),
	}
}

// Register adds a tool. Registration order is the order tools are
// offered to the engine.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
	r.log.Debug().Str("tool", t.Name()).Msg("tool registered")
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the tool definitions offered to the engine.
func (r *Registry) Definitions() []engine.ToolDef {
	defs := make([]engine.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, engine.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}

// Execute runs the named tool and converts every failure mode into a
// user-facing string. Nothing a tool does may crash the dispatch cycle.
func (r *Registry) Execute(ctx context.Context, identity domain.Identity, inv engine.Invocation) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("tool", inv.Name).Interface("panic", rec).Msg("tool panicked")
			result = msgToolFault
		}
	}()

	t, ok := r.Get(inv.Name)
	if !ok {
		r.log.Warn().Str("tool", inv.Name).Msg("engine invoked unknown tool")
		return msgUnknownTool
	}

	out, err := t.Invoke(ctx, identity, inv.Args)
	if err != nil {
		switch {
		case isArgErr(err):
			r.log.Warn().Err(err).Str("tool", inv.Name).Msg("bad tool arguments")
			return msgBadArgs
		default:
			r.log.Error().Err(err).Str("tool", inv.Name).Msg("tool execution failed")
			return msgToolFault
		}
	}
	return out
}

func isArgErr(err error) bool {
	return errors.Is(err, domain.ErrToolArgument) || errors.Is(err, domain.ErrProtocolDecode)
}

// decodeArgs parses tool arguments strictly, mapping malformed input to
// the argument-error taxonomy.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrToolArgument, err)
	}
	return nil
}
