package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obeidat/hrdesk/internal/domain"
)

// ProfileSource fetches an employee's own record.
type ProfileSource interface {
	FetchProfile(ctx context.Context, empID int) (*domain.Profile, error)
}

// ProfileTool returns the requester's own employee record.
type ProfileTool struct {
	src ProfileSource
}

// NewProfileTool creates the self-profile tool.
func NewProfileTool(src ProfileSource) *ProfileTool {
	return &ProfileTool{src: src}
}

func (t *ProfileTool) Name() string { return "get_my_info" }

func (t *ProfileTool) Description() string {
	return "Retrieves the personal information of the current employee. Requires no arguments."
}

func (t *ProfileTool) InputSchema() string {
	return `{"type":"object","properties":{}}`
}

func (t *ProfileTool) Invoke(ctx context.Context, identity domain.Identity, _ json.RawMessage) (string, error) {
	p, err := t.src.FetchProfile(ctx, identity.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	return fmt.Sprintf(
		"👤 Employee Information | معلومات الموظف\n"+
			"────────────────────────────\n"+
			"🔸 Name          : %s\n"+
			"🔸 Job Title     : %s\n"+
			"🔸 Basic Salary  : %.0f JOD\n"+
			"🔸 Email         : %s\n"+
			"🔸 ID            : %d\n"+
			"────────────────────────────\n"+
			"✅ Successfully Retrieved | تم الاستخراج بنجاح",
		p.FullName, p.JobTitle, p.SalaryBasic, p.Email, p.EmployeeID,
	), nil
}
