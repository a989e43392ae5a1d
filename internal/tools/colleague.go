package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/domain"
)

// ColleagueSource finds an employee by full name, joined with their
// department.
type ColleagueSource interface {
	FetchColleague(ctx context.Context, fullName string) (*domain.Colleague, error)
}

// ColleagueTool looks up another employee. Salary visibility follows
// CanViewSalary; everyone else gets the public profile only.
type ColleagueTool struct {
	src ColleagueSource
}

// NewColleagueTool creates the colleague lookup tool.
func NewColleagueTool(src ColleagueSource) *ColleagueTool {
	return &ColleagueTool{src: src}
}

func (t *ColleagueTool) Name() string { return "get_other_employee_info" }

func (t *ColleagueTool) Description() string {
	return "Retrieves information about a specific employee by full name. Visibility of sensitive data (like salary) depends on the requester's role and department."
}

func (t *ColleagueTool) InputSchema() string {
	return `{"type":"object","properties":{"employeeName":{"type":"string","description":"Full name of the employee to look up"}},"required":["employeeName"]}`
}

func (t *ColleagueTool) Invoke(ctx context.Context, identity domain.Identity, args json.RawMessage) (string, error) {
	var in struct {
		EmployeeName string `json:"employeeName"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	in.EmployeeName = strings.TrimSpace(in.EmployeeName)
	if in.EmployeeName == "" {
		return "", fmt.Errorf("%w: employeeName is required", domain.ErrToolArgument)
	}

	c, err := t.src.FetchColleague(ctx, in.EmployeeName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}
	if c == nil {
		return fmt.Sprintf(
			"❌ User Not Found | لم يتم العثور على الموظف\nNo record found for: %s",
			in.EmployeeName,
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"👤 Employee Profile | ملف الموظف\n"+
			"────────────────────────────\n"+
			"🔸 Name       : %s\n"+
			"🔸 Role       : %s\n"+
			"🔸 Job Title  : %s\n"+
			"🔸 Department : %s\n"+
			"🔸 Email      : %s\n",
		c.FullName, capitalize(string(c.Role)), c.JobTitle, c.DepartmentName, c.Email,
	)

	if CanViewSalary(identity, *c) {
		fmt.Fprintf(&b, "💰 Salary     : %.0f JOD\n", c.SalaryBasic)
		b.WriteString("────────────────────────────\n")
		b.WriteString("✅ Full Access Granted | صلاحية مدير قسم")
	} else {
		b.WriteString("────────────────────────────\n")
		b.WriteString("ℹ️ Public Profile Only | معلومات عامة فقط")
	}

	return b.String(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
