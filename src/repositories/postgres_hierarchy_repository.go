package repositories

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/infra/postgres"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHierarchyRepository struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool

	mu         sync.RWMutex
	snapshotID string
}

func NewPostgresHierarchyRepository(ctx context.Context, client *postgres.ReadWriteClient) (*PostgresHierarchyRepository, error) {
	for _, stmt := range postgresSchemaStatements() {
		if _, err := client.GetWritePool().Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("PostgresHierarchyRepository.New - failed to create schema: %w", err)
		}
	}

	return &PostgresHierarchyRepository{
		readPool:  client.GetReadPool(),
		writePool: client.GetWritePool(),
	}, nil
}

func (r *PostgresHierarchyRepository) SnapshotID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotID
}

// Sync troca o conteúdo das tabelas pelo snapshot com COPY dentro de uma
// transação; as FKs são DEFERRABLE e só são checadas no commit.
func (r *PostgresHierarchyRepository) Sync(ctx context.Context, store *EntityStore) error {
	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("PostgresHierarchyRepository.Sync - failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE company_employs, employees, departments`); err != nil {
		return fmt.Errorf("PostgresHierarchyRepository.Sync - failed to truncate: %w", err)
	}

	departments := store.Departments()
	departmentRows := make([][]interface{}, len(departments))
	for i, d := range departments {
		departmentRows[i] = []interface{}{d.ID, d.ShortName, d.LongName}
	}

	employees := store.Employees()
	employeeRows := make([][]interface{}, len(employees))
	for i, e := range employees {
		employeeRows[i] = []interface{}{e.ID, e.Name, int32(e.Age), e.Salary, string(e.EmploymentType), e.DepartmentID, e.ManagerID} //nolint:all
	}

	edges := store.EmploysEdges()
	employsRows := make([][]interface{}, len(edges))
	for i, edge := range edges {
		employsRows[i] = []interface{}{edge.EmployeeID, string(edge.Type), edge.Salary}
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]interface{}
	}{
		{"departments", []string{"id", "short_name", "long_name"}, departmentRows},
		{"employees", []string{"id", "name", "age", "salary", "employment_type", "department_id", "report_to_id"}, employeeRows},
		{"company_employs", []string{"employee_id", "type", "salary"}, employsRows},
	}

	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("PostgresHierarchyRepository.Sync - failed to copy %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if postgres.IsIntegrityViolation(err) {
			return fmt.Errorf("PostgresHierarchyRepository.Sync - snapshot violates mirror constraints: %w", err)
		}
		return fmt.Errorf("PostgresHierarchyRepository.Sync - failed to commit: %w", err)
	}

	r.mu.Lock()
	r.snapshotID = store.SnapshotID()
	r.mu.Unlock()

	return nil
}

func (r *PostgresHierarchyRepository) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Ancestors - %w", err)
	}

	rows, err := r.queryHierarchy(ctx, postgresAncestorsQuery, employeeID, depthArg(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Ancestors - %w", err)
	}
	return rows, nil
}

func (r *PostgresHierarchyRepository) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Descendants - %w", err)
	}

	rows, err := r.queryHierarchy(ctx, postgresDescendantsQuery, employeeID, depthArg(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Descendants - %w", err)
	}
	return rows, nil
}

func (r *PostgresHierarchyRepository) Members(ctx context.Context, departmentID int64) ([]int64, error) {
	var found int64
	err := r.readPool.QueryRow(ctx, `SELECT id FROM departments WHERE id = $1`, departmentID).Scan(&found)
	if postgres.IsNoRows(err) {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Members - department %d: %w", departmentID, domain.ErrDepartmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Members - existence check failed: %w", err)
	}

	rows, err := r.readPool.Query(ctx, `SELECT id FROM employees WHERE department_id = $1 ORDER BY id`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Members - query failed: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.Members - failed to scan: %w", err)
	}
	return ids, nil
}

func (r *PostgresHierarchyRepository) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	where, args := employsFilterClause(filter, dollarPosition)
	query := fmt.Sprintf(`SELECT employee_id, type, salary FROM company_employs %s ORDER BY employee_id`, where)

	rows, err := r.readPool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.EmployedBy - query failed: %w", err)
	}
	defer rows.Close()

	result := make([]domain.EmployedRow, 0)
	for rows.Next() {
		var edge entities.EmploysEdge
		var employmentType string
		if err := rows.Scan(&edge.EmployeeID, &employmentType, &edge.Salary); err != nil {
			return nil, fmt.Errorf("PostgresHierarchyRepository.EmployedBy - failed to scan: %w", err)
		}
		edge.Type = entities.EmploymentType(employmentType)
		result = append(result, domain.EmployedRow{EmployeeID: edge.EmployeeID, Edge: edge})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostgresHierarchyRepository.EmployedBy - %w", err)
	}
	return result, nil
}

func (r *PostgresHierarchyRepository) ensureEmployee(ctx context.Context, employeeID int64) error {
	var found int64
	err := r.readPool.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1`, employeeID).Scan(&found)
	if postgres.IsNoRows(err) {
		return fmt.Errorf("id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	if err != nil {
		return fmt.Errorf("existence check failed: %w", err)
	}
	return nil
}

func (r *PostgresHierarchyRepository) queryHierarchy(ctx context.Context, query string, employeeID int64, depth int) ([]domain.HierarchyRow, error) {
	rows, err := r.readPool.Query(ctx, query, employeeID, int32(depth)) //nolint:all
	if err != nil {
		return nil, fmt.Errorf("recursive query failed: %w", err)
	}
	defer rows.Close()

	result := make([]domain.HierarchyRow, 0)
	for rows.Next() {
		var id int64
		var depth int32
		if err := rows.Scan(&id, &depth); err != nil {
			return nil, fmt.Errorf("failed to scan hierarchy row: %w", err)
		}
		result = append(result, domain.HierarchyRow{EmployeeID: id, Depth: int(depth)})
	}
	return result, rows.Err()
}
