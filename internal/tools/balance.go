package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obeidat/hrdesk/internal/action"
	"github.com/obeidat/hrdesk/internal/domain"
)

// BalanceSource computes an employee's leave balances.
type BalanceSource interface {
	FetchLeaveBalances(ctx context.Context, empID int) ([]domain.LeaveBalance, error)
}

// Renderer turns leave balances into a downloadable report artifact.
type Renderer interface {
	RenderLeaveReport(employeeName string, balances []domain.LeaveBalance) (path string, err error)
}

// BalanceReportTool generates the requester's leave balance report and
// hands the artifact path to the dispatcher as a document action.
type BalanceReportTool struct {
	balances BalanceSource
	profiles ProfileSource
	renderer Renderer
}

// NewBalanceReportTool creates the leave balance report tool.
func NewBalanceReportTool(balances BalanceSource, profiles ProfileSource, renderer Renderer) *BalanceReportTool {
	return &BalanceReportTool{balances: balances, profiles: profiles, renderer: renderer}
}

func (t *BalanceReportTool) Name() string { return "get_my_leave_balance_report" }

func (t *BalanceReportTool) Description() string {
	return "Generates the current employee's leave balance report as a downloadable document. Requires no arguments."
}

func (t *BalanceReportTool) InputSchema() string {
	return `{"type":"object","properties":{}}`
}

func (t *BalanceReportTool) Invoke(ctx context.Context, identity domain.Identity, _ json.RawMessage) (string, error) {
	balances, err := t.balances.FetchLeaveBalances(ctx, identity.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	p, err := t.profiles.FetchProfile(ctx, identity.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	path, err := t.renderer.RenderLeaveReport(p.FullName, balances)
	if err != nil {
		return "📄 Report Generation Failed | فشل إصدار الملف\n" +
			"⚠️ The system failed to generate the report. Please try again later.\n" +
			"⚠️ تعذر إنشاء التقرير حالياً، يرجى المحاولة لاحقاً.", nil
	}

	return action.EncodeSendPDF(path), nil
}
