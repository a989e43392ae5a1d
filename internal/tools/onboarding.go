package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/action"
	"github.com/obeidat/hrdesk/internal/confirm"
	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/store"
)

// EmployeeWriter creates employee rows.
type EmployeeWriter interface {
	CreateEmployee(ctx context.Context, ne domain.NewEmployee) (int64, error)
}

const msgOnboardDenied = "❌ Access Denied | غير مسموح\n" +
	"This action is restricted to HR personnel only.\n" +
	"هذه الصلاحية متاحة فقط لموظفي الـ HR."

// OnboardTool validates a new-hire record and stages it for
// confirmation. Restricted to the hr role.
type OnboardTool struct {
	proposer Proposer
}

// NewOnboardTool creates the onboarding proposal tool.
func NewOnboardTool(proposer Proposer) *OnboardTool {
	return &OnboardTool{proposer: proposer}
}

func (t *OnboardTool) Name() string { return "onboard_new_employee" }

func (t *OnboardTool) Description() string {
	return "Initiates onboarding of a new employee (HR only). The record is only created after the user explicitly confirms."
}

func (t *OnboardTool) InputSchema() string {
	return `{"type":"object","properties":{
		"fullName":{"type":"string","description":"Full legal name of the new hire"},
		"email":{"type":"string","description":"Work email address"},
		"jobTitle":{"type":"string","description":"Official designation"},
		"salaryBasic":{"type":"number","description":"Monthly basic salary"},
		"departmentId":{"type":"integer","description":"Department ID they will be assigned to"},
		"role":{"type":"string","description":"System role: employee, manager or hr"},
		"externalId":{"type":"string","description":"Chat account id to link, if known"}
	},"required":["fullName","email"]}`
}

func (t *OnboardTool) Invoke(_ context.Context, identity domain.Identity, args json.RawMessage) (string, error) {
	if !CanOnboard(identity) {
		return msgOnboardDenied, nil
	}

	var ne domain.NewEmployee
	if err := decodeArgs(args, &ne); err != nil {
		return "", err
	}
	ne.FullName = strings.TrimSpace(ne.FullName)
	ne.Email = strings.TrimSpace(ne.Email)
	if ne.FullName == "" || ne.Email == "" {
		return "", fmt.Errorf("%w: fullName and email are required", domain.ErrToolArgument)
	}
	if ne.Role != "" && !ne.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrToolArgument, ne.Role)
	}

	payload, err := confirm.EncodeOnboardPayload(ne)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	summary := fmt.Sprintf("Onboard %s (%s) | إضافة موظف جديد", ne.FullName, ne.Email)
	prop := t.proposer.Propose(confirm.OpOnboard, identity, summary, payload)

	return action.EncodeConfirmOnboard(prop.Token, summary), nil
}

// OnboardFinalizer creates the confirmed new-hire record.
type OnboardFinalizer struct {
	writer EmployeeWriter
}

// NewOnboardFinalizer creates the finalizer for confirmed onboardings.
func NewOnboardFinalizer(writer EmployeeWriter) *OnboardFinalizer {
	return &OnboardFinalizer{writer: writer}
}

func (f *OnboardFinalizer) Kind() confirm.OpKind { return confirm.OpOnboard }

// Finalize re-validates the staged record and inserts it. A duplicate
// email yields a structured failure and no row.
func (f *OnboardFinalizer) Finalize(ctx context.Context, identity domain.Identity, payload string) (domain.Action, error) {
	ne, err := confirm.DecodeOnboardPayload(payload)
	if err != nil {
		return domain.Action{}, err
	}

	newID, err := f.writer.CreateEmployee(ctx, ne)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return domain.StructuredText(
			"❌ Onboarding Failed | فشل إضافة الموظف\n" +
				"The email address is already registered.\n" +
				"البريد الإلكتروني مسجل مسبقاً.",
		), nil
	}
	if err != nil {
		return domain.Action{}, fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	return domain.StructuredText(fmt.Sprintf(
		"✅ Onboarding Successful | تم الإضافة بنجاح\n"+
			"────────────────────────────\n"+
			"🔸 Name   : %s\n"+
			"🔸 New ID : %d\n",
		ne.FullName, newID,
	)), nil
}
