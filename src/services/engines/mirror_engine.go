package engines

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"
)

// HierarchyQuerier is implemented by repositories that hold a mirrored copy of
// the snapshot in a real database and answer natively there.
type HierarchyQuerier interface {
	Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error)
	Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error)
	Members(ctx context.Context, departmentID int64) ([]int64, error)
	EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error)
}

// MirrorEngine adapta um repositório espelho (SQLite, Postgres, Neo4j) para a
// interface TraversalEngine.
type MirrorEngine struct {
	backend domain.Backend
	querier HierarchyQuerier
}

func NewMirrorEngine(backend domain.Backend, querier HierarchyQuerier) *MirrorEngine {
	return &MirrorEngine{backend: backend, querier: querier}
}

func (m *MirrorEngine) Backend() domain.Backend {
	return m.backend
}

func (m *MirrorEngine) Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if _, err := domain.DepthAllows(maxDepth, 0); err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).Ancestors - %w", m.backend, err)
	}

	rows, err := m.querier.Ancestors(ctx, employeeID, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).Ancestors - %w", m.backend, err)
	}
	return rows, nil
}

func (m *MirrorEngine) Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error) {
	if _, err := domain.DepthAllows(maxDepth, 0); err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).Descendants - %w", m.backend, err)
	}

	rows, err := m.querier.Descendants(ctx, employeeID, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).Descendants - %w", m.backend, err)
	}
	return rows, nil
}

func (m *MirrorEngine) MembersOfDepartment(ctx context.Context, departmentID int64) ([]int64, error) {
	ids, err := m.querier.Members(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).MembersOfDepartment - %w", m.backend, err)
	}
	return ids, nil
}

func (m *MirrorEngine) EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error) {
	rows, err := m.querier.EmployedBy(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("MirrorEngine(%s).EmployedBy - %w", m.backend, err)
	}
	return rows, nil
}
