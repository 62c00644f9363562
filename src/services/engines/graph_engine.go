package engines

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/repositories"
)

// GraphEngine responde caminhando pelas arestas, como um MATCH de tamanho
// variável no Cypher. O custo é proporcional aos nós visitados, não ao
// tamanho do dataset.
type GraphEngine struct {
	store *repositories.EntityStore
}

func NewGraphEngine(store *repositories.EntityStore) *GraphEngine {
	return &GraphEngine{store: store}
}

func (g *GraphEngine) Backend() domain.Backend {
	return domain.BackendGraph
}

func (g *GraphEngine) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if !g.store.HasEmployee(employeeID) {
		return nil, fmt.Errorf("GraphEngine.Ancestors - id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	if _, err := domain.DepthAllows(maxDepth, 0); err != nil {
		return nil, fmt.Errorf("GraphEngine.Ancestors - %w", err)
	}

	rows := make([]domain.HierarchyRow, 0)
	current := employeeID

	for depth := 1; ; depth++ {
		parentID, ok := g.store.ManagerID(current)
		if !ok {
			break
		}
		if allowed, _ := domain.DepthAllows(maxDepth, depth); !allowed {
			break
		}
		if depth > g.store.Size() {
			return nil, fmt.Errorf("GraphEngine.Ancestors - chain above %d longer than the dataset: %w", employeeID, domain.ErrCycleDetected)
		}

		rows = append(rows, domain.HierarchyRow{EmployeeID: parentID, Depth: depth})
		current = parentID
	}

	return rows, nil
}

type dfsFrame struct {
	id    int64
	depth int
}

func (g *GraphEngine) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if !g.store.HasEmployee(employeeID) {
		return nil, fmt.Errorf("GraphEngine.Descendants - id %d: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	if _, err := domain.DepthAllows(maxDepth, 0); err != nil {
		return nil, fmt.Errorf("GraphEngine.Descendants - %w", err)
	}

	rows := make([]domain.HierarchyRow, 0)
	stack := g.pushChildren(nil, employeeID, 1, maxDepth)

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows = append(rows, domain.HierarchyRow{EmployeeID: frame.id, Depth: frame.depth})
		stack = g.pushChildren(stack, frame.id, frame.depth+1, maxDepth)
	}

	return rows, nil
}

// pushChildren empilha os filhos em ordem decrescente para que o menor id
// saia primeiro da pilha.
func (g *GraphEngine) pushChildren(stack []dfsFrame, parentID int64, depth int, maxDepth *int) []dfsFrame {
	if allowed, _ := domain.DepthAllows(maxDepth, depth); !allowed {
		return stack
	}

	children := g.store.DirectReportIDs(parentID)
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, dfsFrame{id: children[i], depth: depth})
	}
	return stack
}

func (g *GraphEngine) MembersOfDepartment(ctx context.Context, departmentID int64) ([]int64, error) {
	members, err := g.store.Members(departmentID)
	if err != nil {
		return nil, fmt.Errorf("GraphEngine.MembersOfDepartment - %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (g *GraphEngine) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	rows := make([]domain.EmployedRow, 0)
	for _, edge := range g.store.EmploysEdges() {
		if filter.Matches(edge) {
			rows = append(rows, domain.EmployedRow{EmployeeID: edge.EmployeeID, Edge: edge})
		}
	}
	return rows, nil
}
