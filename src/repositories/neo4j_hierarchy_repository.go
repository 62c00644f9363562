package repositories

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	neo4jinfra "orghierarchy/src/infra/neo4j"
	"sort"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jHierarchyRepository espelha o snapshot como grafo de propriedades:
// (:Employee)-[:REPORTS_TO]->(:Employee), (:Employee)-[:MEMBER_OF]->(:Department)
// e (:Company)-[:EMPLOYS {type, salary}]->(:Employee).
type Neo4jHierarchyRepository struct {
	client *neo4jinfra.Neo4jClient

	mu         sync.RWMutex
	snapshotID string
}

func neo4jIndexStatements() []string {
	return []string{
		`CREATE INDEX employee_id IF NOT EXISTS FOR (e:Employee) ON (e.id)`,
		`CREATE INDEX department_id IF NOT EXISTS FOR (d:Department) ON (d.id)`,
	}
}

func NewNeo4jHierarchyRepository(ctx context.Context, client *neo4jinfra.Neo4jClient) (*Neo4jHierarchyRepository, error) {
	for _, stmt := range neo4jIndexStatements() {
		if err := client.Run(ctx, stmt, nil); err != nil {
			return nil, fmt.Errorf("Neo4jHierarchyRepository.New - failed to create index: %w", err)
		}
	}

	return &Neo4jHierarchyRepository{client: client}, nil
}

func (r *Neo4jHierarchyRepository) SnapshotID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotID
}

func (r *Neo4jHierarchyRepository) Sync(ctx context.Context, store *EntityStore) error {
	departments := make([]map[string]any, 0, len(store.Departments()))
	for _, d := range store.Departments() {
		departments = append(departments, map[string]any{"id": d.ID, "short_name": d.ShortName, "long_name": d.LongName})
	}

	employees := make([]map[string]any, 0, store.Size())
	reports := make([]map[string]any, 0, store.Size())
	for _, e := range store.Employees() {
		employees = append(employees, map[string]any{
			"id":              e.ID,
			"name":            e.Name,
			"age":             int64(e.Age),
			"salary":          e.Salary,
			"employment_type": string(e.EmploymentType),
			"department_id":   e.DepartmentID,
		})
		if e.ManagerID != nil {
			reports = append(reports, map[string]any{"employee_id": e.ID, "manager_id": *e.ManagerID})
		}
	}

	employs := make([]map[string]any, 0, store.Size())
	for _, edge := range store.EmploysEdges() {
		employs = append(employs, map[string]any{"employee_id": edge.EmployeeID, "type": string(edge.Type), "salary": edge.Salary})
	}

	company := store.Company()

	_, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			query  string
			params map[string]any
		}{
			{`MATCH (n) WHERE n:Employee OR n:Department OR n:Company DETACH DELETE n`, nil},
			{`UNWIND $rows AS d CREATE (:Department {id: d.id, short_name: d.short_name, long_name: d.long_name})`, map[string]any{"rows": departments}},
			{`
				UNWIND $rows AS e
				MATCH (d:Department {id: e.department_id})
				CREATE (n:Employee {id: e.id, name: e.name, age: e.age, salary: e.salary, employment_type: e.employment_type})
				CREATE (n)-[:MEMBER_OF]->(d)
			`, map[string]any{"rows": employees}},
			{`
				UNWIND $rows AS r
				MATCH (e:Employee {id: r.employee_id}), (m:Employee {id: r.manager_id})
				CREATE (e)-[:REPORTS_TO]->(m)
			`, map[string]any{"rows": reports}},
			{`
				CREATE (c:Company {id: $company_id, name: $company_name})
				WITH c
				UNWIND $rows AS x
				MATCH (e:Employee {id: x.employee_id})
				CREATE (c)-[:EMPLOYS {type: x.type, salary: x.salary}]->(e)
			`, map[string]any{"company_id": company.ID, "company_name": company.Name, "rows": employs}},
		}

		for _, step := range steps {
			result, err := tx.Run(ctx, step.query, step.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("Neo4jHierarchyRepository.Sync - %w", err)
	}

	r.mu.Lock()
	r.snapshotID = store.SnapshotID()
	r.mu.Unlock()

	return nil
}

// hopRange monta o intervalo do padrão de tamanho variável; limites não
// podem ser parametrizados em Cypher.
func hopRange(maxDepth *int) string {
	if maxDepth == nil {
		return "*1.."
	}
	return fmt.Sprintf("*1..%d", *maxDepth)
}

func (r *Neo4jHierarchyRepository) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Ancestors - %w", err)
	}
	if maxDepth != nil && *maxDepth == 0 {
		return []domain.HierarchyRow{}, nil
	}

	query := fmt.Sprintf(`
		MATCH p = (:Employee {id: $id})-[:REPORTS_TO%s]->(m:Employee)
		RETURN m.id AS id, length(p) AS depth
		ORDER BY depth
	`, hopRange(maxDepth))

	rows, _, err := r.queryHierarchy(ctx, query, employeeID, false)
	if err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Ancestors - %w", err)
	}
	return rows, nil
}

func (r *Neo4jHierarchyRepository) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if err := r.ensureEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Descendants - %w", err)
	}
	if maxDepth != nil && *maxDepth == 0 {
		return []domain.HierarchyRow{}, nil
	}

	query := fmt.Sprintf(`
		MATCH p = (:Employee {id: $id})<-[:REPORTS_TO%s]-(e:Employee)
		RETURN e.id AS id, length(p) AS depth, [n IN nodes(p) | n.id] AS path
	`, hopRange(maxDepth))

	rows, paths, err := r.queryHierarchy(ctx, query, employeeID, true)
	if err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Descendants - %w", err)
	}

	return orderByPath(rows, paths), nil
}

// orderByPath ordena as linhas pelo caminho raiz→nó; comparar caminhos
// lexicograficamente, com o prefixo antes, dá a pré-ordem com irmãos por id.
func orderByPath(rows []domain.HierarchyRow, paths [][]int64) []domain.HierarchyRow {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return lessPath(paths[order[i]], paths[order[j]]) })

	sorted := make([]domain.HierarchyRow, len(rows))
	for i, idx := range order {
		sorted[i] = rows[idx]
	}
	return sorted
}

func lessPath(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (r *Neo4jHierarchyRepository) Members(ctx context.Context, departmentID int64) ([]int64, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (d:Department {id: $id})
			OPTIONAL MATCH (e:Employee)-[:MEMBER_OF]->(d)
			RETURN e.id AS id
			ORDER BY id
		`, map[string]any{"id": departmentID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Members - %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.Members - department %d: %w", departmentID, domain.ErrDepartmentNotFound)
	}

	ids := make([]int64, 0, len(records))
	for _, record := range records {
		id, isNil, err := neo4j.GetRecordValue[int64](record, "id")
		if err != nil {
			return nil, fmt.Errorf("Neo4jHierarchyRepository.Members - %w", err)
		}
		if !isNil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Neo4jHierarchyRepository) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	params := map[string]any{"type": nil, "min": nil, "max": nil}
	if filter.Type != nil {
		params["type"] = string(*filter.Type)
	}
	if filter.SalaryRange != nil {
		if filter.SalaryRange.Min != nil {
			params["min"] = *filter.SalaryRange.Min
		}
		if filter.SalaryRange.Max != nil {
			params["max"] = *filter.SalaryRange.Max
		}
	}

	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (:Company)-[r:EMPLOYS]->(e:Employee)
			WHERE ($type IS NULL OR r.type = $type)
			  AND ($min IS NULL OR r.salary >= $min)
			  AND ($max IS NULL OR r.salary <= $max)
			RETURN e.id AS id, r.type AS type, r.salary AS salary
			ORDER BY id
		`, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("Neo4jHierarchyRepository.EmployedBy - %w", err)
	}

	rows := make([]domain.EmployedRow, 0)
	for _, record := range result.([]*neo4j.Record) {
		id, _, err := neo4j.GetRecordValue[int64](record, "id")
		if err != nil {
			return nil, fmt.Errorf("Neo4jHierarchyRepository.EmployedBy - %w", err)
		}
		employmentType, _, err := neo4j.GetRecordValue[string](record, "type")
		if err != nil {
			return nil, fmt.Errorf("Neo4jHierarchyRepository.EmployedBy - %w", err)
		}
		salary, _, err := neo4j.GetRecordValue[int64](record, "salary")
		if err != nil {
			return nil, fmt.Errorf("Neo4jHierarchyRepository.EmployedBy - %w", err)
		}

		edge := entities.EmploysEdge{EmployeeID: id, Type: entities.EmploymentType(employmentType), Salary: salary}
		rows = append(rows, domain.EmployedRow{EmployeeID: id, Edge: edge})
	}
	return rows, nil
}

func (r *Neo4jHierarchyRepository) ensureEmployee(ctx context.Context, employeeID int64) error {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (e:Employee {id: $id}) RETURN count(e) AS total`, map[string]any{"id": employeeID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		total, _, err := neo4j.GetRecordValue[int64](record, "total")
		return total, err
	})
	if err != nil {
		return fmt.Errorf("existence check failed: %w", err)
	}
	if result.(int64) == 0 {
		return fmt.Errorf("id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	return nil
}

func (r *Neo4jHierarchyRepository) queryHierarchy(ctx context.Context, query string, employeeID int64, withPath bool) ([]domain.HierarchyRow, [][]int64, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": employeeID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("variable-length match failed: %w", err)
	}

	records := result.([]*neo4j.Record)
	rows := make([]domain.HierarchyRow, 0, len(records))
	paths := make([][]int64, 0, len(records))

	for _, record := range records {
		id, _, err := neo4j.GetRecordValue[int64](record, "id")
		if err != nil {
			return nil, nil, err
		}
		depth, _, err := neo4j.GetRecordValue[int64](record, "depth")
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, domain.HierarchyRow{EmployeeID: id, Depth: int(depth)})

		if withPath {
			raw, _, err := neo4j.GetRecordValue[[]any](record, "path")
			if err != nil {
				return nil, nil, err
			}
			path := make([]int64, 0, len(raw))
			for _, v := range raw {
				if n, ok := v.(int64); ok {
					path = append(path, n)
				}
			}
			paths = append(paths, path)
		}
	}

	return rows, paths, nil
}
