// Package dispatch runs the per-message agent cycle: resolve identity,
// screen input, consult the language engine, execute at most one tool
// and decode the outcome into a deliverable action.
package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/obeidat/hrdesk/internal/action"
	"github.com/obeidat/hrdesk/internal/confirm"
	"github.com/obeidat/hrdesk/internal/directory"
	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/engine"
	"github.com/obeidat/hrdesk/internal/filter"
	"github.com/obeidat/hrdesk/internal/hooks"
	"github.com/obeidat/hrdesk/internal/logging"
	"github.com/obeidat/hrdesk/internal/session"
	"github.com/obeidat/hrdesk/internal/tools"
)

const (
	msgUnregistered = "❌ Access Denied | غير مسموح بالدخول\n\nYour chat account is not linked to any employee record. Please contact HR.\nحسابك غير مرتبط بأي سجل موظف. يرجى التواصل مع الموارد البشرية."

	msgInputRejected = "🚫 Request Blocked | تم حظر الطلب\n\nThis request cannot be processed.\nلا يمكن معالجة هذا الطلب."

	msgSystemIssue = "⚠️ Temporary Issue | مشكلة مؤقتة\n\nI could not process your message right now. Please try again in a moment.\nتعذر معالجة رسالتك حالياً. يرجى المحاولة بعد قليل."

	msgMarkerSuppressed = "I could not complete that request. Please try again.\nتعذر إتمام هذا الطلب. يرجى المحاولة مرة أخرى."
)

// Config carries the engine parameters for a dispatcher.
type Config struct {
	AgentName   string
	Model       string
	MaxTokens   int
	Temperature *float64
	ExtraPrompt string
}

// Dispatcher owns one full message cycle. It serializes cycles per
// employee and appends history only when a cycle completes cleanly.
type Dispatcher struct {
	cfg      Config
	filter   *filter.Filter
	resolver *directory.Resolver
	sessions *session.Registry
	engine   engine.Client
	tools    *tools.Registry
	workflow *confirm.Workflow
	hooks    *hooks.Manager
	log      *logging.Logger
}

// New builds a dispatcher. The hooks manager may be nil.
func New(cfg Config, f *filter.Filter, r *directory.Resolver, s *session.Registry, eng engine.Client, tr *tools.Registry, w *confirm.Workflow, h *hooks.Manager, log *logging.Logger) *Dispatcher {
	if h == nil {
		h = hooks.NewManager(log)
	}
	return &Dispatcher{
		cfg:      cfg,
		filter:   f,
		resolver: r,
		sessions: s,
		engine:   eng,
		tools:    tr,
		workflow: w,
		hooks:    h,
		log:      log.Sub("dispatch"),
	}
}

// Hooks exposes the lifecycle hook manager for transport integration.
func (d *Dispatcher) Hooks() *hooks.Manager { return d.hooks }

// Dispatch runs one cycle for an inbound message and returns the action
// to deliver. It never returns an error; every failure mode maps to a
// user-facing action.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.InboundMessage) domain.Action {
	start := time.Now()
	d.hooks.Emit(ctx, hooks.EventCycleStart, map[string]any{
		"messageId":  msg.ID,
		"transport":  msg.TransportID,
		"externalId": msg.ExternalID,
	})

	act := d.dispatch(ctx, msg)

	d.hooks.Emit(ctx, hooks.EventCycleEnd, map[string]any{
		"messageId":  msg.ID,
		"externalId": msg.ExternalID,
		"kind":       string(act.Kind),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return act
}

func (d *Dispatcher) dispatch(ctx context.Context, msg domain.InboundMessage) domain.Action {
	id, err := d.resolver.Resolve(ctx, msg.ExternalID)
	if err != nil {
		d.log.Error().Err(err).Str("external_id", msg.ExternalID).Msg("identity resolution failed")
		return domain.Reply(msgSystemIssue)
	}
	if id == nil {
		d.hooks.Emit(ctx, hooks.EventAccessDenied, map[string]any{"externalId": msg.ExternalID})
		return domain.Denied(msgUnregistered)
	}

	unlock := d.sessions.Lock(id.EmployeeID)
	defer unlock()

	if msg.Decision != nil {
		return d.resolveDecision(ctx, *id, msg)
	}

	// The greeting command is answered locally; it carries no intent
	// worth a session turn or an engine round.
	if body := strings.TrimSpace(msg.Body); body == "" || body == "/start" {
		return domain.Reply(tools.RoleMenu(*id))
	}

	if d.filter.Classify(msg.Body) != filter.Safe {
		d.hooks.Emit(ctx, hooks.EventInputRejected, map[string]any{
			"employeeId": id.EmployeeID,
		})
		d.log.Warn().Int("employee_id", id.EmployeeID).Msg("input rejected by filter")
		return domain.Denied(msgInputRejected)
	}

	return d.runCycle(ctx, *id, msg)
}

// resolveDecision routes a confirm/cancel choice straight to the
// confirmation workflow. The engine is never consulted.
func (d *Dispatcher) resolveDecision(ctx context.Context, id domain.Identity, msg domain.InboundMessage) domain.Action {
	act := d.workflow.Resolve(ctx, id, *msg.Decision)
	choice := "cancel"
	if msg.Decision.Approved {
		choice = "confirm"
	}
	d.hooks.Emit(ctx, hooks.EventProposalResolved, map[string]any{
		"employeeId": id.EmployeeID,
		"choice":     choice,
	})
	d.sessions.Append(id.EmployeeID,
		domain.Turn{Role: domain.TurnUser, Content: "[decision] " + choice, Timestamp: msg.Timestamp},
		domain.Turn{Role: domain.TurnTool, Content: act.Text, Timestamp: time.Now().UTC()},
	)
	return act
}

// runCycle performs one engine round with at most one tool invocation.
// History is appended only after the whole cycle succeeds.
func (d *Dispatcher) runCycle(ctx context.Context, id domain.Identity, msg domain.InboundMessage) domain.Action {
	history := d.sessions.History(id.EmployeeID)

	req := engine.Request{
		Model: d.cfg.Model,
		System: BuildSystemPrompt(PromptConfig{
			AgentName:   d.cfg.AgentName,
			UserName:    id.FullName,
			Role:        id.Role,
			Tools:       d.tools.Definitions(),
			ExtraPrompt: d.cfg.ExtraPrompt,
		}),
		Messages:    historyToMessages(history, msg.Body),
		Tools:       d.tools.Definitions(),
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
	}

	res, err := d.engine.Respond(ctx, req)
	if err != nil {
		d.log.Error().Err(err).Int("employee_id", id.EmployeeID).Msg("engine request failed")
		return domain.Reply(msgSystemIssue)
	}

	staged := []domain.Turn{
		{Role: domain.TurnUser, Content: msg.Body, Timestamp: msg.Timestamp},
	}

	var act domain.Action
	if res.Invocation != nil {
		out := d.tools.Execute(ctx, id, *res.Invocation)
		decoded, derr := action.DecodeToolResult(out)
		if derr != nil {
			d.log.Error().Err(derr).Str("tool", res.Invocation.Name).Msg("tool result decode failed")
			return domain.Reply(msgSystemIssue)
		}
		act = decoded
		staged = append(staged,
			domain.Turn{Role: domain.TurnAgent, Content: "[tool] " + res.Invocation.Name, Timestamp: time.Now().UTC()},
			domain.Turn{Role: domain.TurnTool, Content: turnTextFor(act), Timestamp: time.Now().UTC()},
		)
	} else {
		text := res.Text
		if action.ContainsMarker(text) {
			// Marker text from the model itself is never trusted.
			d.log.Warn().Int("employee_id", id.EmployeeID).Msg("suppressed marker in generated text")
			text = msgMarkerSuppressed
		}
		act = action.DecodeGenerated(text)
		staged = append(staged,
			domain.Turn{Role: domain.TurnAgent, Content: text, Timestamp: time.Now().UTC()},
		)
	}

	if act.Kind == domain.ActionConfirmation {
		d.hooks.Emit(ctx, hooks.EventProposalStaged, map[string]any{
			"employeeId": id.EmployeeID,
			"summary":    act.Summary,
		})
	}

	d.sessions.Append(id.EmployeeID, staged...)
	return act
}

// historyToMessages converts stored turns plus the current message into
// the engine conversation. Tool turns replay as user-side context so
// the model sees prior outcomes without being able to forge them.
func historyToMessages(history []domain.Turn, body string) []engine.Message {
	msgs := make([]engine.Message, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case domain.TurnAgent:
			msgs = append(msgs, engine.Message{Role: engine.RoleAssistant, Content: t.Content})
		case domain.TurnTool:
			msgs = append(msgs, engine.Message{Role: engine.RoleUser, Content: "[tool result]\n" + t.Content})
		default:
			msgs = append(msgs, engine.Message{Role: engine.RoleUser, Content: t.Content})
		}
	}
	return append(msgs, engine.Message{Role: engine.RoleUser, Content: body})
}

// turnTextFor renders an action for history storage. Control details
// like tokens and file paths stay out of the transcript.
func turnTextFor(act domain.Action) string {
	switch act.Kind {
	case domain.ActionDocument:
		return "Generated the requested report and sent it as a document."
	case domain.ActionConfirmation:
		return "Asked the user to confirm: " + act.Summary
	default:
		return act.Text
	}
}
