package repositories

// SQLite schema DDL constants

const sqliteSchemaDepartments = `
CREATE TABLE IF NOT EXISTS departments (
    id         INTEGER PRIMARY KEY,
    short_name TEXT NOT NULL,
    long_name  TEXT
)`

const sqliteSchemaEmployees = `
CREATE TABLE IF NOT EXISTS employees (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    age             INTEGER NOT NULL,
    salary          INTEGER NOT NULL,
    employment_type TEXT NOT NULL,
    department_id   INTEGER NOT NULL REFERENCES departments(id),
    report_to_id    INTEGER REFERENCES employees(id)
)`

const sqliteSchemaCompanyEmploys = `
CREATE TABLE IF NOT EXISTS company_employs (
    employee_id INTEGER PRIMARY KEY REFERENCES employees(id),
    type        TEXT NOT NULL,
    salary      INTEGER NOT NULL
)`

const sqliteIndexReportTo = `CREATE INDEX IF NOT EXISTS idx_employees_report_to ON employees(report_to_id)`

const sqliteIndexDepartment = `CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department_id)`

func sqliteSchemaStatements() []string {
	return []string{
		sqliteSchemaDepartments,
		sqliteSchemaEmployees,
		sqliteSchemaCompanyEmploys,
		sqliteIndexReportTo,
		sqliteIndexDepartment,
	}
}

// O caminho materializado usa ids com largura fixa para que a ordenação por
// texto seja a mesma da pré-ordem por id.
const sqliteDescendantsQuery = `
WITH RECURSIVE subordinates (id, depth, path) AS (
    SELECT id, 0, printf('%020d', id)
    FROM employees
    WHERE id = ?

    UNION ALL

    SELECT e.id, s.depth + 1, s.path || '/' || printf('%020d', e.id)
    FROM employees e
    JOIN subordinates s ON e.report_to_id = s.id
    WHERE ? < 0 OR s.depth < ?
)
SELECT id, depth FROM subordinates WHERE depth > 0 ORDER BY path`

const sqliteAncestorsQuery = `
WITH RECURSIVE managers (id, report_to_id, depth) AS (
    SELECT id, report_to_id, 0
    FROM employees
    WHERE id = ?

    UNION ALL

    SELECT e.id, e.report_to_id, m.depth + 1
    FROM employees e
    JOIN managers m ON e.id = m.report_to_id
    WHERE ? < 0 OR m.depth < ?
)
SELECT id, depth FROM managers WHERE depth > 0 ORDER BY depth`
