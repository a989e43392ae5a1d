package confirm

import (
	"context"
	"errors"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

// User-facing outcomes for the decision path. Bilingual, matching the
// register of the tool outputs.
const (
	msgTokenInvalid = "⚠️ This request has expired or was already handled. | انتهت صلاحية هذا الطلب أو تمت معالجته مسبقاً."
	msgCancelled    = "❌ Request cancelled. No changes were made. | تم إلغاء الطلب، لم يتم إجراء أي تغيير."
	msgFinalizeErr  = "❌ System Error | خطأ في النظام\nThe confirmed operation could not be completed. Please start over.\nتعذر إتمام العملية، يرجى البدء من جديد."
)

// Finalizer executes one kind of confirmed operation.
type Finalizer interface {
	Kind() OpKind
	Finalize(ctx context.Context, identity domain.Identity, payload string) (domain.Action, error)
}

// Workflow drives proposals from staged to finalized or cancelled. A
// token resolves exactly once; re-presenting it in either direction gets
// the already-handled message.
type Workflow struct {
	pending    *PendingStore
	finalizers map[OpKind]Finalizer
	log        *logging.Logger
}

// NewWorkflow creates a workflow over the given pending store.
func NewWorkflow(pending *PendingStore, log *logging.Logger) *Workflow {
	return &Workflow{
		pending:    pending,
		finalizers: make(map[OpKind]Finalizer),
		log:        log.Sub("confirm"),
	}
}

// RegisterFinalizer wires the executor for one operation kind.
func (w *Workflow) RegisterFinalizer(f Finalizer) {
	w.finalizers[f.Kind()] = f
}

// Propose stages an operation for the employee and returns its proposal.
func (w *Workflow) Propose(kind OpKind, identity domain.Identity, summary, payload string) Proposal {
	return w.pending.Propose(kind, identity.EmployeeID, summary, payload)
}

// Resolve settles a user decision against its pending proposal. The
// token is consumed whichever way the decision goes; cancellation leaves
// all state untouched. Finalization runs detached from the inbound
// message's cancellation so a confirmed write always runs to completion.
func (w *Workflow) Resolve(ctx context.Context, identity domain.Identity, d domain.Decision) domain.Action {
	prop, err := w.pending.Take(d.Token, identity.EmployeeID)
	if err != nil {
		if !errors.Is(err, ErrTokenInvalid) {
			w.log.Error().Err(err).Msg("taking proposal failed")
		}
		return domain.Reply(msgTokenInvalid)
	}

	if !d.Approved {
		w.log.Info().Str("kind", string(prop.Kind)).Int("employee", identity.EmployeeID).Msg("proposal cancelled")
		return domain.Reply(msgCancelled)
	}

	f, ok := w.finalizers[prop.Kind]
	if !ok {
		w.log.Error().Str("kind", string(prop.Kind)).Msg("no finalizer registered")
		return domain.Reply(msgFinalizeErr)
	}

	act, err := f.Finalize(context.WithoutCancel(ctx), identity, prop.Payload)
	if err != nil {
		// The token is already consumed; a failed finalize is terminal
		// and the user re-proposes from scratch.
		w.log.Error().Err(err).Str("kind", string(prop.Kind)).Int("employee", identity.EmployeeID).Msg("finalize failed")
		return domain.Reply(msgFinalizeErr)
	}

	w.log.Info().Str("kind", string(prop.Kind)).Int("employee", identity.EmployeeID).Msg("proposal finalized")
	return act
}
