package repositories

// Postgres schema DDL constants

const postgresSchemaDepartments = `
CREATE TABLE IF NOT EXISTS departments (
    id         BIGINT PRIMARY KEY,
    short_name TEXT NOT NULL,
    long_name  TEXT
)`

const postgresSchemaEmployees = `
CREATE TABLE IF NOT EXISTS employees (
    id              BIGINT PRIMARY KEY,
    name            TEXT NOT NULL,
    age             INTEGER NOT NULL,
    salary          BIGINT NOT NULL,
    employment_type TEXT NOT NULL,
    department_id   BIGINT NOT NULL REFERENCES departments(id) DEFERRABLE INITIALLY DEFERRED,
    report_to_id    BIGINT REFERENCES employees(id) DEFERRABLE INITIALLY DEFERRED
)`

const postgresSchemaCompanyEmploys = `
CREATE TABLE IF NOT EXISTS company_employs (
    employee_id BIGINT PRIMARY KEY REFERENCES employees(id) DEFERRABLE INITIALLY DEFERRED,
    type        TEXT NOT NULL,
    salary      BIGINT NOT NULL
)`

const postgresIndexReportTo = `CREATE INDEX IF NOT EXISTS idx_employees_report_to ON employees(report_to_id)`

const postgresIndexDepartment = `CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department_id)`

func postgresSchemaStatements() []string {
	return []string{
		postgresSchemaDepartments,
		postgresSchemaEmployees,
		postgresSchemaCompanyEmploys,
		postgresIndexReportTo,
		postgresIndexDepartment,
	}
}

// ORDER BY path: arrays comparam elemento a elemento, o que dá a pré-ordem
// com irmãos em ordem crescente de id.
const postgresDescendantsQuery = `
WITH RECURSIVE subordinates (id, depth, path) AS (
    SELECT
        id,
        0,
        ARRAY[id]
    FROM
        employees
    WHERE
        id = $1

    UNION ALL

    SELECT
        e.id,
        s.depth + 1,
        s.path || e.id
    FROM
        employees e
    JOIN
        subordinates s ON e.report_to_id = s.id
    WHERE
        $2::INTEGER < 0 OR s.depth < $2::INTEGER
)
SELECT id, depth FROM subordinates WHERE depth > 0 ORDER BY path`

const postgresAncestorsQuery = `
WITH RECURSIVE managers (id, report_to_id, depth) AS (
    SELECT
        id,
        report_to_id,
        0
    FROM
        employees
    WHERE
        id = $1

    UNION ALL

    SELECT
        e.id,
        e.report_to_id,
        m.depth + 1
    FROM
        employees e
    JOIN
        managers m ON e.id = m.report_to_id
    WHERE
        $2::INTEGER < 0 OR m.depth < $2::INTEGER
)
SELECT id, depth FROM managers WHERE depth > 0 ORDER BY depth`
