// Package domain defines the core types shared across hrdesk components.
package domain

// Role is an employee's system role. It controls which operations the
// agent offers and which data a tool will disclose.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR:
		return true
	}
	return false
}

// Identity is a resolved internal identity for one external chat account.
// It is immutable for the duration of a dispatch cycle and re-resolved
// fresh on every inbound message.
type Identity struct {
	EmployeeID   int    `json:"employeeId"`
	ExternalID   string `json:"externalId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	JobTitle     string `json:"jobTitle"`
	DepartmentID int    `json:"departmentId"`
}

// Profile is an employee record as exposed to the profile tools.
type Profile struct {
	EmployeeID  int     `json:"employeeId"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	JobTitle    string  `json:"jobTitle"`
	SalaryBasic float64 `json:"salaryBasic"`
}

// Colleague is another employee's record joined with department data,
// plus the requester's own role and department for the visibility check.
type Colleague struct {
	Profile
	DepartmentID   int    `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
}

// LeaveBalance is one leave type's entitlement for an employee.
type LeaveBalance struct {
	LeaveType string `json:"leaveType"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

// NewEmployee carries the fields required to onboard a new hire.
type NewEmployee struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	JobTitle    string  `json:"jobTitle"`
	SalaryBasic float64 `json:"salaryBasic"`
	DepartmentID int    `json:"departmentId"`
	Role        Role    `json:"role"`
	ExternalID  string  `json:"externalId,omitempty"`
}
