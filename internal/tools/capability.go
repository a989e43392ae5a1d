package tools

import "github.com/obeidat/hrdesk/internal/domain"

// CanViewSalary reports whether the requester may see the target's
// salary. Self always; otherwise only a manager over the target's own
// department.
func CanViewSalary(requester domain.Identity, target domain.Colleague) bool {
	if requester.EmployeeID == target.EmployeeID {
		return true
	}
	return requester.Role == domain.RoleManager &&
		target.DepartmentID != 0 &&
		requester.DepartmentID == target.DepartmentID
}

// CanOnboard reports whether the requester may onboard new employees.
func CanOnboard(requester domain.Identity) bool {
	return requester.Role == domain.RoleHR
}
