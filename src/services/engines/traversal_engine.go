package engines

import (
	"context"
	"orghierarchy/src/domain"
)

// TraversalEngine answers hierarchy queries over one backend. Engines work
// with identifiers only; resolving them into records is the caller's job.
//
// Both Ancestors and Descendants take maxDepth as the number of REPORTS_TO
// hops to include: nil is unbounded, 0 yields nothing, negative values fail
// with domain.ErrInvalidDepth.
type TraversalEngine interface {
	Backend() domain.Backend

	// Ancestors follows REPORTS_TO upward, nearest manager first.
	Ancestors(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error)

	// Descendants walks the report subtree in pre-order, siblings by
	// ascending id.
	Descendants(ctx context.Context, employeeID int64, maxDepth *int) ([]domain.HierarchyRow, error)

	// MembersOfDepartment returns member ids, ascending.
	MembersOfDepartment(ctx context.Context, departmentID int64) ([]int64, error)

	// EmployedBy returns the company's EMPLOYS edges matching filter, by
	// ascending employee id.
	EmployedBy(ctx context.Context, filter domain.CompanyAttributeFilter) ([]domain.EmployedRow, error)
}
