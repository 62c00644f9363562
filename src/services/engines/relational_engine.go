package engines

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"sort"
)

// TableSource expõe o dataset como tabelas planas, do jeito que um banco
// relacional enxerga: employees com a FK ReportToID, departments e a tabela
// de EMPLOYS.
type TableSource interface {
	Rows() []domain.EmployeeRow
	Departments() []entities.Department
	EmploysEdges() []entities.EmploysEdge
}

// RelationalEngine emula um WITH RECURSIVE: um laço de ponto fixo que junta a
// fronteira com a relação inteira até não sobrar nada novo. Assim como o
// UNION ALL de uma CTE, não há deduplicação; o limite de iterações é o que
// transforma um ciclo em erro em vez de um laço infinito.
type RelationalEngine struct {
	tables TableSource
}

func NewRelationalEngine(tables TableSource) *RelationalEngine {
	return &RelationalEngine{tables: tables}
}

func (r *RelationalEngine) Backend() domain.Backend {
	return domain.BackendRelational
}

// cteRow is one row of the recursive working table.
type cteRow struct {
	row   domain.EmployeeRow
	depth int
	path  []int64
}

type joinFunc func(relation []domain.EmployeeRow, frontier []cteRow) []cteRow

func (r *RelationalEngine) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	result, err := r.fixedPoint(ctx, employeeID, maxDepth, joinManagers)
	if err != nil {
		return nil, fmt.Errorf("RelationalEngine.Ancestors - %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].depth < result[j].depth })
	return toHierarchyRows(result), nil
}

func (r *RelationalEngine) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	result, err := r.fixedPoint(ctx, employeeID, maxDepth, joinReports)
	if err != nil {
		return nil, fmt.Errorf("RelationalEngine.Descendants - %w", err)
	}

	// ORDER BY path: o caminho materializado dá a pré-ordem com irmãos por id.
	sort.Slice(result, func(i, j int) bool { return comparePaths(result[i].path, result[j].path) < 0 })
	return toHierarchyRows(result), nil
}

func (r *RelationalEngine) fixedPoint(ctx context.Context, employeeID int64, maxDepth *int, join joinFunc) ([]cteRow, error) {
	if _, err := domain.DepthAllows(maxDepth, 0); err != nil {
		return nil, err
	}

	relation := r.tables.Rows()

	seed, found := seedRow(relation, employeeID)
	if !found {
		return nil, fmt.Errorf("id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}

	bound := len(relation)
	frontier := []cteRow{seed}
	result := make([]cteRow, 0)

	for iteration := 1; len(frontier) > 0; iteration++ {
		if allowed, _ := domain.DepthAllows(maxDepth, iteration); !allowed {
			break
		}
		if iteration > bound {
			return nil, fmt.Errorf("recursion from %d still producing rows after %d iterations: %w", employeeID, bound, domain.ErrCycleDetected)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frontier = join(relation, frontier)
		result = append(result, frontier...)
	}

	return result, nil
}

func seedRow(relation []domain.EmployeeRow, employeeID int64) (cteRow, bool) {
	for _, row := range relation {
		if row.ID == employeeID {
			return cteRow{row: row, depth: 0, path: []int64{row.ID}}, true
		}
	}
	return cteRow{}, false
}

// joinManagers: SELECT m.* FROM employees m JOIN frontier f ON m.id = f.report_to_id
func joinManagers(relation []domain.EmployeeRow, frontier []cteRow) []cteRow {
	byManager := make(map[int64][]cteRow, len(frontier))
	for _, f := range frontier {
		if f.row.ReportToID != nil {
			byManager[*f.row.ReportToID] = append(byManager[*f.row.ReportToID], f)
		}
	}

	var next []cteRow
	for _, row := range relation {
		for _, f := range byManager[row.ID] {
			next = append(next, cteRow{row: row, depth: f.depth + 1, path: extendPath(f.path, row.ID)})
		}
	}
	return next
}

// joinReports: SELECT e.* FROM employees e JOIN frontier f ON e.report_to_id = f.id
func joinReports(relation []domain.EmployeeRow, frontier []cteRow) []cteRow {
	byID := make(map[int64][]cteRow, len(frontier))
	for _, f := range frontier {
		byID[f.row.ID] = append(byID[f.row.ID], f)
	}

	var next []cteRow
	for _, row := range relation {
		if row.ReportToID == nil {
			continue
		}
		for _, f := range byID[*row.ReportToID] {
			next = append(next, cteRow{row: row, depth: f.depth + 1, path: extendPath(f.path, row.ID)})
		}
	}
	return next
}

func extendPath(path []int64, id int64) []int64 {
	extended := make([]int64, len(path), len(path)+1)
	copy(extended, path)
	return append(extended, id)
}

func comparePaths(a, b []int64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func toHierarchyRows(result []cteRow) []domain.HierarchyRow {
	rows := make([]domain.HierarchyRow, 0, len(result))
	for _, r := range result {
		rows = append(rows, domain.HierarchyRow{EmployeeID: r.row.ID, Depth: r.depth})
	}
	return rows
}

func (r *RelationalEngine) MembersOfDepartment(ctx context.Context, departmentID int64) ([]int64, error) {
	exists := false
	for _, d := range r.tables.Departments() {
		if d.ID == departmentID {
			exists = true
			break
		}
	}
	if !exists {
		return nil, fmt.Errorf("RelationalEngine.MembersOfDepartment - department %d: %w", departmentID, domain.ErrDepartmentNotFound)
	}

	ids := make([]int64, 0)
	for _, row := range r.tables.Rows() {
		if row.DepartmentID == departmentID {
			ids = append(ids, row.ID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *RelationalEngine) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	rows := make([]domain.EmployedRow, 0)
	for _, edge := range r.tables.EmploysEdges() {
		if filter.Matches(edge) {
			rows = append(rows, domain.EmployedRow{EmployeeID: edge.EmployeeID, Edge: edge})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeID < rows[j].EmployeeID })
	return rows, nil
}
