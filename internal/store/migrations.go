package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create departments, employees, leave types and leaves",
		SQL: `
			CREATE TABLE departments (
				dep_id      INTEGER PRIMARY KEY AUTOINCREMENT,
				name        TEXT NOT NULL UNIQUE,
				manager_id  INTEGER
			);

			CREATE TABLE employees (
				emp_id        INTEGER PRIMARY KEY AUTOINCREMENT,
				external_id   TEXT NOT NULL DEFAULT '',
				full_name     TEXT NOT NULL,
				email         TEXT NOT NULL,
				role          TEXT NOT NULL DEFAULT 'employee',
				job_title     TEXT NOT NULL DEFAULT '',
				salary_basic  REAL NOT NULL DEFAULT 0,
				dep_id        INTEGER REFERENCES departments(dep_id),
				hired_at      TEXT NOT NULL DEFAULT (date('now'))
			);

			CREATE UNIQUE INDEX idx_employees_email ON employees (email);
			CREATE UNIQUE INDEX idx_employees_external ON employees (external_id)
				WHERE external_id != '';
			CREATE INDEX idx_employees_name ON employees (full_name);

			CREATE TABLE leave_types (
				leave_type_id       INTEGER PRIMARY KEY,
				name                TEXT NOT NULL,
				name_ar             TEXT NOT NULL DEFAULT '',
				default_total_days  INTEGER NOT NULL
			);

			CREATE TABLE leaves (
				leave_id       INTEGER PRIMARY KEY AUTOINCREMENT,
				emp_id         INTEGER NOT NULL REFERENCES employees(emp_id) ON DELETE CASCADE,
				leave_type_id  INTEGER NOT NULL REFERENCES leave_types(leave_type_id),
				start_date     TEXT NOT NULL,
				end_date       TEXT NOT NULL,
				status         TEXT NOT NULL DEFAULT 'pending',
				created_at     TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_leaves_emp ON leaves (emp_id, status);

			INSERT INTO leave_types (leave_type_id, name, name_ar, default_total_days) VALUES
				(1, 'Annual', 'سنوية', 21),
				(2, 'Sick', 'مرضية', 14),
				(3, 'Casual', 'عارضة', 7);
		`,
	},
	{
		Version: 2,
		Name:    "create conversation turns",
		SQL: `
			CREATE TABLE turns (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				emp_id     INTEGER NOT NULL,
				role       TEXT NOT NULL,
				content    TEXT NOT NULL,
				timestamp  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_turns_emp ON turns (emp_id, id);
		`,
	},
}
