package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedCompany creates one department and two employees: a manager and a
// regular employee in the same department. Returns their employee ids.
func seedCompany(t *testing.T, hr *HR) (managerID, empID int64) {
	t.Helper()
	ctx := context.Background()

	depID, err := hr.CreateDepartment(ctx, "Engineering", 0)
	require.NoError(t, err)

	managerID, err = hr.CreateEmployee(ctx, domain.NewEmployee{
		FullName:     "Lina Haddad",
		Email:        "lina@corp.example",
		JobTitle:     "Engineering Manager",
		SalaryBasic:  2400,
		DepartmentID: int(depID),
		Role:         domain.RoleManager,
		ExternalID:   "tg-1001",
	})
	require.NoError(t, err)

	empID, err = hr.CreateEmployee(ctx, domain.NewEmployee{
		FullName:     "Omar Khalil",
		Email:        "omar@corp.example",
		JobTitle:     "Backend Developer",
		SalaryBasic:  1500,
		DepartmentID: int(depID),
		Role:         domain.RoleEmployee,
		ExternalID:   "tg-2002",
	})
	require.NoError(t, err)

	return managerID, empID
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"departments", "employees", "leave_types", "leaves", "turns"}
	for _, table := range tables {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestSchema_LeaveTypesSeeded(t *testing.T) {
	db := testDB(t)
	hr := NewHR(db)

	name, nameAr, err := hr.FetchLeaveType(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Annual", name)
	assert.NotEmpty(t, nameAr)

	_, _, err = hr.FetchLeaveType(context.Background(), 99)
	assert.ErrorIs(t, err, ErrLeaveTypeUnknown)
}

// --- HR store tests ---

func TestHR_LookupByExternalID(t *testing.T) {
	hr := NewHR(testDB(t))
	managerID, _ := seedCompany(t, hr)

	id, err := hr.LookupByExternalID(context.Background(), "tg-1001")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int(managerID), id.EmployeeID)
	assert.Equal(t, "Lina Haddad", id.FullName)
	assert.Equal(t, domain.RoleManager, id.Role)
	assert.NotZero(t, id.DepartmentID)
}

func TestHR_LookupByExternalID_Unregistered(t *testing.T) {
	hr := NewHR(testDB(t))
	seedCompany(t, hr)

	id, err := hr.LookupByExternalID(context.Background(), "tg-9999")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestHR_LookupByExternalID_EmptyIDNeverMatches(t *testing.T) {
	hr := NewHR(testDB(t))
	_, err := hr.CreateEmployee(context.Background(), domain.NewEmployee{
		FullName: "No Chat Account",
		Email:    "nochat@corp.example",
	})
	require.NoError(t, err)

	id, err := hr.LookupByExternalID(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestHR_FetchProfile(t *testing.T) {
	hr := NewHR(testDB(t))
	_, empID := seedCompany(t, hr)

	p, err := hr.FetchProfile(context.Background(), int(empID))
	require.NoError(t, err)
	assert.Equal(t, "Omar Khalil", p.FullName)
	assert.Equal(t, 1500.0, p.SalaryBasic)

	_, err = hr.FetchProfile(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestHR_FetchColleague(t *testing.T) {
	hr := NewHR(testDB(t))
	seedCompany(t, hr)

	c, err := hr.FetchColleague(context.Background(), "Omar Khalil")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Backend Developer", c.JobTitle)
	assert.Equal(t, "Engineering", c.DepartmentName)
	assert.NotZero(t, c.DepartmentID)

	c, err = hr.FetchColleague(context.Background(), "Nobody Here")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestHR_FetchLeaveBalances_NoHistory(t *testing.T) {
	hr := NewHR(testDB(t))
	_, empID := seedCompany(t, hr)

	balances, err := hr.FetchLeaveBalances(context.Background(), int(empID))
	require.NoError(t, err)
	require.Len(t, balances, 3)

	for _, b := range balances {
		assert.Zero(t, b.Used, "no approved leaves yet for %s", b.LeaveType)
		assert.Equal(t, b.Total, b.Remaining)
	}
	assert.Equal(t, "Annual", balances[0].LeaveType)
	assert.Equal(t, 21, balances[0].Total)
}

func TestHR_FetchLeaveBalances_CountsOnlyApproved(t *testing.T) {
	db := testDB(t)
	hr := NewHR(db)
	_, empID := seedCompany(t, hr)
	ctx := context.Background()

	// 5 annual days, approved
	leaveID, err := hr.CreateLeaveRequest(ctx, int(empID), 1, "2026-03-02", "2026-03-06")
	require.NoError(t, err)
	_, err = db.sql.Exec(`UPDATE leaves SET status = 'approved' WHERE leave_id = ?`, leaveID)
	require.NoError(t, err)

	// 3 more annual days, still pending
	_, err = hr.CreateLeaveRequest(ctx, int(empID), 1, "2026-04-01", "2026-04-03")
	require.NoError(t, err)

	balances, err := hr.FetchLeaveBalances(ctx, int(empID))
	require.NoError(t, err)
	require.Len(t, balances, 3)

	assert.Equal(t, 5, balances[0].Used)
	assert.Equal(t, 16, balances[0].Remaining)
	assert.Zero(t, balances[1].Used)
	assert.Zero(t, balances[2].Used)
}

func TestHR_CreateLeaveRequest_DefaultsPending(t *testing.T) {
	hr := NewHR(testDB(t))
	_, empID := seedCompany(t, hr)
	ctx := context.Background()

	leaveID, err := hr.CreateLeaveRequest(ctx, int(empID), 2, "2026-05-10", "2026-05-11")
	require.NoError(t, err)
	assert.Positive(t, leaveID)

	status, err := hr.LeaveStatus(ctx, leaveID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}

func TestHR_CreateEmployee_DuplicateEmail(t *testing.T) {
	hr := NewHR(testDB(t))
	seedCompany(t, hr)

	_, err := hr.CreateEmployee(context.Background(), domain.NewEmployee{
		FullName: "Another Omar",
		Email:    "omar@corp.example",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestHR_CreateEmployee_DefaultRole(t *testing.T) {
	hr := NewHR(testDB(t))

	id, err := hr.CreateEmployee(context.Background(), domain.NewEmployee{
		FullName: "Rana Saleh",
		Email:    "rana@corp.example",
	})
	require.NoError(t, err)

	p, err := hr.FetchProfile(context.Background(), int(id))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, p.Role)
}

// --- Session store tests ---

func TestSessionStore_AppendAndHistory(t *testing.T) {
	db := testDB(t)
	ss := NewSQLiteSessionStore(db)

	ss.Append(7,
		domain.Turn{Role: domain.TurnUser, Content: "hello"},
		domain.Turn{Role: domain.TurnAgent, Content: "hi there"},
	)
	ss.Append(7, domain.Turn{Role: domain.TurnUser, Content: "what is my balance?"})

	turns := ss.History(7)
	require.Len(t, turns, 3)
	assert.Equal(t, domain.TurnUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "what is my balance?", turns[2].Content)
	assert.False(t, turns[0].Timestamp.IsZero())
}

func TestSessionStore_HistoryIsolatedPerEmployee(t *testing.T) {
	db := testDB(t)
	ss := NewSQLiteSessionStore(db)

	ss.Append(1, domain.Turn{Role: domain.TurnUser, Content: "mine"})
	ss.Append(2, domain.Turn{Role: domain.TurnUser, Content: "yours"})

	assert.Len(t, ss.History(1), 1)
	assert.Len(t, ss.History(2), 1)
	assert.Empty(t, ss.History(3))
}

func TestSessionStore_PreservesTimestamps(t *testing.T) {
	db := testDB(t)
	ss := NewSQLiteSessionStore(db)

	when := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	ss.Append(4, domain.Turn{Role: domain.TurnAgent, Content: "noted", Timestamp: when})

	turns := ss.History(4)
	require.Len(t, turns, 1)
	assert.Equal(t, when, turns[0].Timestamp)
}
