package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"sync"
)

// SQLiteHierarchyRepository mantém uma cópia do snapshot num SQLite e
// responde as consultas de hierarquia com WITH RECURSIVE.
type SQLiteHierarchyRepository struct {
	db *sql.DB

	mu         sync.RWMutex
	snapshotID string
}

func NewSQLiteHierarchyRepository(ctx context.Context, db *sql.DB) (*SQLiteHierarchyRepository, error) {
	for _, stmt := range sqliteSchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("SQLiteHierarchyRepository.New - failed to create schema: %w", err)
		}
	}

	return &SQLiteHierarchyRepository{db: db}, nil
}

func (r *SQLiteHierarchyRepository) SnapshotID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotID
}

// Sync substitui o conteúdo das tabelas pelo snapshot, numa única transação.
func (r *SQLiteHierarchyRepository) Sync(ctx context.Context, store *EntityStore) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Gerentes podem ter id maior que os subordinados; a FK só é checada no commit.
	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to defer foreign keys: %w", err)
	}

	for _, table := range []string{"company_employs", "employees", "departments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to clear %s: %w", table, err)
		}
	}

	if err := r.insertDepartments(ctx, tx, store.Departments()); err != nil {
		return err
	}
	if err := r.insertEmployees(ctx, tx, store.Employees()); err != nil {
		return err
	}
	if err := r.insertEmploys(ctx, tx, store.EmploysEdges()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to commit: %w", err)
	}

	r.mu.Lock()
	r.snapshotID = store.SnapshotID()
	r.mu.Unlock()

	return nil
}

func (r *SQLiteHierarchyRepository) insertDepartments(ctx context.Context, tx *sql.Tx, departments []entities.Department) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO departments (id, short_name, long_name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to prepare departments insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range departments {
		if _, err := stmt.ExecContext(ctx, d.ID, d.ShortName, d.LongName); err != nil {
			return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to insert department %d: %w", d.ID, err)
		}
	}
	return nil
}

func (r *SQLiteHierarchyRepository) insertEmployees(ctx context.Context, tx *sql.Tx, employees []entities.Employee) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (id, name, age, salary, employment_type, department_id, report_to_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to prepare employees insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		var reportTo sql.NullInt64
		if e.ManagerID != nil {
			reportTo = sql.NullInt64{Int64: *e.ManagerID, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.Age, e.Salary, string(e.EmploymentType), e.DepartmentID, reportTo); err != nil {
			return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to insert employee %d: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteHierarchyRepository) insertEmploys(ctx context.Context, tx *sql.Tx, edges []entities.EmploysEdge) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO company_employs (employee_id, type, salary) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to prepare employs insert: %w", err)
	}
	defer stmt.Close()

	for _, edge := range edges {
		if _, err := stmt.ExecContext(ctx, edge.EmployeeID, string(edge.Type), edge.Salary); err != nil {
			return fmt.Errorf("SQLiteHierarchyRepository.Sync - failed to insert employs edge %d: %w", edge.EmployeeID, err)
		}
	}
	return nil
}

func (r *SQLiteHierarchyRepository) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Ancestors - %w", err)
	}

	depth := depthArg(maxDepth)
	rows, err := r.queryHierarchy(ctx, sqliteAncestorsQuery, employeeID, depth, depth)
	if err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Ancestors - %w", err)
	}
	return rows, nil
}

func (r *SQLiteHierarchyRepository) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Descendants - %w", err)
	}

	depth := depthArg(maxDepth)
	rows, err := r.queryHierarchy(ctx, sqliteDescendantsQuery, employeeID, depth, depth)
	if err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Descendants - %w", err)
	}
	return rows, nil
}

func (r *SQLiteHierarchyRepository) Members(ctx context.Context, departmentID int64) ([]int64, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = ?)`, departmentID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Members - existence check failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Members - department %d: %w", departmentID, domain.ErrDepartmentNotFound)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM employees WHERE department_id = ? ORDER BY id`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.Members - query failed: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("SQLiteHierarchyRepository.Members - failed to scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteHierarchyRepository) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	where, args := employsFilterClause(filter, questionMark)
	query := fmt.Sprintf(`SELECT employee_id, type, salary FROM company_employs %s ORDER BY employee_id`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SQLiteHierarchyRepository.EmployedBy - query failed: %w", err)
	}
	defer rows.Close()

	result := make([]domain.EmployedRow, 0)
	for rows.Next() {
		var edge entities.EmploysEdge
		var employmentType string
		if err := rows.Scan(&edge.EmployeeID, &employmentType, &edge.Salary); err != nil {
			return nil, fmt.Errorf("SQLiteHierarchyRepository.EmployedBy - failed to scan: %w", err)
		}
		edge.Type = entities.EmploymentType(employmentType)
		result = append(result, domain.EmployedRow{EmployeeID: edge.EmployeeID, Edge: edge})
	}
	return result, rows.Err()
}

func (r *SQLiteHierarchyRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteHierarchyRepository) ensureEmployee(ctx context.Context, employeeID int64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = ?)`, employeeID).Scan(&exists); err != nil {
		return fmt.Errorf("existence check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	return nil
}

func (r *SQLiteHierarchyRepository) queryHierarchy(ctx context.Context, query string, args ...any) ([]domain.HierarchyRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recursive query failed: %w", err)
	}
	defer rows.Close()

	result := make([]domain.HierarchyRow, 0)
	for rows.Next() {
		var row domain.HierarchyRow
		if err := rows.Scan(&row.EmployeeID, &row.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan hierarchy row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
