package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/obeidat/hrdesk/internal/action"
	"github.com/obeidat/hrdesk/internal/confirm"
	"github.com/obeidat/hrdesk/internal/domain"
)

// leaveTypeIDs maps localized leave type names to leave type ids.
var leaveTypeIDs = map[string]int{
	"ANNUAL": 1, "SICK": 2, "CASUAL": 3,
	"سنوية": 1, "مرضية": 2, "عارضة": 3, "طارئة": 3,
}

// leaveTypeNames maps ids back to bilingual display names.
var leaveTypeNames = map[int]string{
	1: "Annual | سنوية",
	2: "Sick | مرضية",
	3: "Casual | عارضة",
}

const dateLayout = "2006-01-02"

// LeaveWriter creates leave request rows and resolves leave type names.
type LeaveWriter interface {
	CreateLeaveRequest(ctx context.Context, empID, typeID int, startDate, endDate string) (int64, error)
	FetchLeaveType(ctx context.Context, typeID int) (name, nameAr string, err error)
}

// Proposer stages irreversible operations for confirmation.
type Proposer interface {
	Propose(kind confirm.OpKind, identity domain.Identity, summary, payload string) confirm.Proposal
}

// LeaveRequestTool validates a leave request and stages it for
// confirmation. Nothing touches the leave ledger until the user confirms.
type LeaveRequestTool struct {
	proposer Proposer
}

// NewLeaveRequestTool creates the leave proposal tool.
func NewLeaveRequestTool(proposer Proposer) *LeaveRequestTool {
	return &LeaveRequestTool{proposer: proposer}
}

func (t *LeaveRequestTool) Name() string { return "request_leave" }

func (t *LeaveRequestTool) Description() string {
	return "Prepares a leave request for the current employee. The request is only booked after the user explicitly confirms."
}

func (t *LeaveRequestTool) InputSchema() string {
	return `{"type":"object","properties":{
		"leaveType":{"type":"string","description":"Type of leave: Annual, Sick, Casual (or the Arabic name)"},
		"startDate":{"type":"string","description":"Start date (YYYY-MM-DD)"},
		"endDate":{"type":"string","description":"End date (YYYY-MM-DD)"}
	},"required":["leaveType","startDate","endDate"]}`
}

func (t *LeaveRequestTool) Invoke(_ context.Context, identity domain.Identity, args json.RawMessage) (string, error) {
	var in struct {
		LeaveType string `json:"leaveType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	typeID, ok := leaveTypeIDs[strings.ToUpper(strings.TrimSpace(in.LeaveType))]
	if !ok {
		typeID, ok = leaveTypeIDs[strings.TrimSpace(in.LeaveType)]
	}
	if !ok {
		return "", fmt.Errorf("%w: unknown leave type %q", domain.ErrToolArgument, in.LeaveType)
	}

	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return "", fmt.Errorf("%w: bad start date %q", domain.ErrToolArgument, in.StartDate)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return "", fmt.Errorf("%w: bad end date %q", domain.ErrToolArgument, in.EndDate)
	}
	if end.Before(start) {
		return "", fmt.Errorf("%w: end date before start date", domain.ErrToolArgument)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	summary := fmt.Sprintf("%s: %s → %s (%d days | %d أيام)",
		leaveTypeNames[typeID], in.StartDate, in.EndDate, days, days)

	prop := t.proposer.Propose(confirm.OpLeave, identity, summary,
		confirm.EncodeLeavePayload(typeID, in.StartDate, in.EndDate))

	return action.EncodeConfirmLeave(prop.Token, summary), nil
}

// LeaveFinalizer books a confirmed leave request.
type LeaveFinalizer struct {
	writer LeaveWriter
}

// NewLeaveFinalizer creates the finalizer for confirmed leave proposals.
func NewLeaveFinalizer(writer LeaveWriter) *LeaveFinalizer {
	return &LeaveFinalizer{writer: writer}
}

func (f *LeaveFinalizer) Kind() confirm.OpKind { return confirm.OpLeave }

// Finalize re-validates the staged payload and writes the leave row.
func (f *LeaveFinalizer) Finalize(ctx context.Context, identity domain.Identity, payload string) (domain.Action, error) {
	typeID, startDate, endDate, err := confirm.DecodeLeavePayload(payload)
	if err != nil {
		return domain.Action{}, err
	}

	leaveID, err := f.writer.CreateLeaveRequest(ctx, identity.EmployeeID, typeID, startDate, endDate)
	if err != nil {
		return domain.Action{}, fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	// The configured type names in the store win over the built-in map;
	// the map only covers a failed lookup.
	typeName := leaveTypeNames[typeID]
	if name, nameAr, err := f.writer.FetchLeaveType(ctx, typeID); err == nil {
		typeName = name + " | " + nameAr
	}

	return domain.StructuredText(fmt.Sprintf(
		"✅ Leave Request Submitted | تم تقديم طلب الإجازة بنجاح\n"+
			"────────────────────────────\n"+
			"🔸 Request ID : %d\n"+
			"🔸 Type       : %s\n"+
			"🔸 Status     : Pending Approval | قيد الانتظار\n"+
			"────────────────────────────\n"+
			"ℹ️ You will be notified once reviewed.\n"+
			"سيتم إشعارك فور مراجعة الطلب.",
		leaveID, typeName,
	)), nil
}
