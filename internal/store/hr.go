package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/domain"
)

var (
	// ErrEmployeeNotFound is returned when an employee id has no record.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateEmail is returned when an insert collides with an
	// existing employee email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrLeaveTypeUnknown is returned for a leave type id outside the
	// configured set.
	ErrLeaveTypeUnknown = errors.New("unknown leave type")
)

// HR exposes the employee directory, leave ledger and onboarding writes
// on top of a DB.
type HR struct {
	db *DB
}

// NewHR creates an HR store using the given database.
func NewHR(db *DB) *HR {
	return &HR{db: db}
}

// LookupByExternalID maps a chat-account id to an internal identity.
// Returns (nil, nil) when no employee is linked to the id; an error means
// the lookup itself failed and the caller should treat it as transient.
func (h *HR) LookupByExternalID(ctx context.Context, externalID string) (*domain.Identity, error) {
	var id domain.Identity
	var depID sql.NullInt64
	err := h.db.sql.QueryRowContext(ctx,
		`SELECT emp_id, external_id, full_name, email, role, job_title, dep_id
		 FROM employees WHERE external_id = ? AND external_id != ''`, externalID,
	).Scan(&id.EmployeeID, &id.ExternalID, &id.FullName, &id.Email, &id.Role, &id.JobTitle, &depID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up external id: %w", err)
	}
	id.DepartmentID = int(depID.Int64)
	return &id, nil
}

// FetchProfile returns an employee's own record including salary.
func (h *HR) FetchProfile(ctx context.Context, empID int) (*domain.Profile, error) {
	var p domain.Profile
	err := h.db.sql.QueryRowContext(ctx,
		`SELECT emp_id, full_name, email, role, job_title, salary_basic
		 FROM employees WHERE emp_id = ?`, empID,
	).Scan(&p.EmployeeID, &p.FullName, &p.Email, &p.Role, &p.JobTitle, &p.SalaryBasic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching profile %d: %w", empID, err)
	}
	return &p, nil
}

// FetchColleague finds another employee by full name, joined with their
// department. Returns (nil, nil) when no employee matches the name.
func (h *HR) FetchColleague(ctx context.Context, fullName string) (*domain.Colleague, error) {
	var c domain.Colleague
	var depID sql.NullInt64
	var depName sql.NullString
	err := h.db.sql.QueryRowContext(ctx,
		`SELECT e.emp_id, e.full_name, e.email, e.role, e.job_title, e.salary_basic,
		        e.dep_id, d.name
		 FROM employees e
		 LEFT JOIN departments d ON e.dep_id = d.dep_id
		 WHERE e.full_name = ?`, fullName,
	).Scan(&c.EmployeeID, &c.FullName, &c.Email, &c.Role, &c.JobTitle, &c.SalaryBasic,
		&depID, &depName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching colleague %q: %w", fullName, err)
	}
	c.DepartmentID = int(depID.Int64)
	c.DepartmentName = depName.String
	return &c, nil
}

// FetchLeaveBalances aggregates approved leave days per type against the
// type's default entitlement. Employees with no leave history still get a
// row per configured type with zero used days.
func (h *HR) FetchLeaveBalances(ctx context.Context, empID int) ([]domain.LeaveBalance, error) {
	rows, err := h.db.sql.QueryContext(ctx,
		`SELECT lt.name,
		        lt.default_total_days,
		        COALESCE(SUM(julianday(l.end_date) - julianday(l.start_date) + 1), 0)
		 FROM leave_types lt
		 LEFT JOIN leaves l ON lt.leave_type_id = l.leave_type_id
		     AND l.emp_id = ?
		     AND l.status = 'approved'
		 GROUP BY lt.leave_type_id, lt.name, lt.default_total_days
		 ORDER BY lt.leave_type_id`, empID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching leave balances: %w", err)
	}
	defer rows.Close()

	var balances []domain.LeaveBalance
	for rows.Next() {
		var b domain.LeaveBalance
		var used float64
		if err := rows.Scan(&b.LeaveType, &b.Total, &used); err != nil {
			return nil, fmt.Errorf("scanning leave balance: %w", err)
		}
		b.Used = int(used)
		b.Remaining = b.Total - b.Used
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// FetchLeaveType returns the English and Arabic names for a leave type id.
func (h *HR) FetchLeaveType(ctx context.Context, typeID int) (name, nameAr string, err error) {
	err = h.db.sql.QueryRowContext(ctx,
		`SELECT name, name_ar FROM leave_types WHERE leave_type_id = ?`, typeID,
	).Scan(&name, &nameAr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrLeaveTypeUnknown
	}
	if err != nil {
		return "", "", fmt.Errorf("fetching leave type %d: %w", typeID, err)
	}
	return name, nameAr, nil
}

// CreateLeaveRequest inserts a pending leave request and returns its id.
func (h *HR) CreateLeaveRequest(ctx context.Context, empID, typeID int, startDate, endDate string) (int64, error) {
	res, err := h.db.sql.ExecContext(ctx,
		`INSERT INTO leaves (emp_id, leave_type_id, start_date, end_date, status)
		 VALUES (?, ?, ?, ?, 'pending')`,
		empID, typeID, startDate, endDate,
	)
	if err != nil {
		return 0, fmt.Errorf("creating leave request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading leave request id: %w", err)
	}
	h.db.log.Info().Int("employee", empID).Int64("leave", id).Msg("leave request created")
	return id, nil
}

// LeaveStatus returns the current status of a leave request.
func (h *HR) LeaveStatus(ctx context.Context, leaveID int64) (string, error) {
	var status string
	err := h.db.sql.QueryRowContext(ctx,
		`SELECT status FROM leaves WHERE leave_id = ?`, leaveID,
	).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("fetching leave %d: %w", leaveID, err)
	}
	return status, nil
}

// CreateEmployee inserts a new hire and returns the new employee id.
// A collision on the email unique index maps to ErrDuplicateEmail.
func (h *HR) CreateEmployee(ctx context.Context, ne domain.NewEmployee) (int64, error) {
	role := ne.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	res, err := h.db.sql.ExecContext(ctx,
		`INSERT INTO employees (external_id, full_name, email, role, job_title, salary_basic, dep_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ne.ExternalID, ne.FullName, ne.Email, string(role), ne.JobTitle, ne.SalaryBasic,
		nullableDep(ne.DepartmentID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "idx_employees_email") ||
			strings.Contains(err.Error(), "employees.email") {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("creating employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading employee id: %w", err)
	}
	h.db.log.Info().Int64("employee", id).Str("email", ne.Email).Msg("employee created")
	return id, nil
}

// CreateDepartment inserts a department and returns its id.
func (h *HR) CreateDepartment(ctx context.Context, name string, managerID int) (int64, error) {
	res, err := h.db.sql.ExecContext(ctx,
		`INSERT INTO departments (name, manager_id) VALUES (?, ?)`,
		name, nullableDep(managerID),
	)
	if err != nil {
		return 0, fmt.Errorf("creating department: %w", err)
	}
	return res.LastInsertId()
}

func nullableDep(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
