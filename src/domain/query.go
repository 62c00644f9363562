package domain

import (
	"fmt"
	"orghierarchy/src/domain/entities"
	"time"
)

type Backend string

const (
	BackendGraph      Backend = "graph"
	BackendRelational Backend = "relational"
	BackendSQLite     Backend = "sqlite"
	BackendPostgres   Backend = "postgres"
	BackendNeo4j      Backend = "neo4j"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendGraph, BackendRelational, BackendSQLite, BackendPostgres, BackendNeo4j:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

type QueryKind string

const (
	QueryAncestors                   QueryKind = "ancestors"
	QueryDescendants                 QueryKind = "descendants"
	QueryMembersOfDepartment         QueryKind = "members_of_department"
	QueryEmployeesByCompanyAttribute QueryKind = "employees_by_company_attribute"
)

// QueryRequest é o pedido único aceito pela fachada de consultas. Apenas os
// campos relevantes ao Kind são lidos.
type QueryRequest struct {
	Kind           QueryKind                `json:"kind"`
	EmployeeID     int64                    `json:"employee_id,omitempty"`
	DepartmentID   int64                    `json:"department_id,omitempty"`
	MaxDepth       *int                     `json:"max_depth,omitempty"`
	EmploymentType *entities.EmploymentType `json:"employment_type,omitempty"`
	SalaryRange    *SalaryRange             `json:"salary_range,omitempty"`
}

func AncestorsQuery(employeeID int64, maxDepth *int) QueryRequest {
	return QueryRequest{Kind: QueryAncestors, EmployeeID: employeeID, MaxDepth: maxDepth}
}

func DescendantsQuery(employeeID int64, maxDepth *int) QueryRequest {
	return QueryRequest{Kind: QueryDescendants, EmployeeID: employeeID, MaxDepth: maxDepth}
}

func MembersOfDepartmentQuery(departmentID int64) QueryRequest {
	return QueryRequest{Kind: QueryMembersOfDepartment, DepartmentID: departmentID}
}

func EmployeesByTypeQuery(employmentType entities.EmploymentType) QueryRequest {
	return QueryRequest{Kind: QueryEmployeesByCompanyAttribute, EmploymentType: &employmentType}
}

func EmployeesBySalaryQuery(salaryRange SalaryRange) QueryRequest {
	return QueryRequest{Kind: QueryEmployeesByCompanyAttribute, SalaryRange: &salaryRange}
}

func (r QueryRequest) Validate() error {
	switch r.Kind {
	case QueryAncestors, QueryDescendants:
		if r.MaxDepth != nil && *r.MaxDepth < 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidDepth, *r.MaxDepth)
		}
	case QueryMembersOfDepartment:
	case QueryEmployeesByCompanyAttribute:
		if r.EmploymentType == nil && r.SalaryRange == nil {
			return fmt.Errorf("%w: company attribute query needs a type or a salary range", ErrInvalidRequest)
		}
		if r.EmploymentType != nil && *r.EmploymentType != entities.EmploymentPermanent && *r.EmploymentType != entities.EmploymentTemporary {
			return fmt.Errorf("%w: unknown employment type %q", ErrInvalidRequest, *r.EmploymentType)
		}
		if r.SalaryRange != nil && r.SalaryRange.Min != nil && r.SalaryRange.Max != nil && *r.SalaryRange.Min > *r.SalaryRange.Max {
			return fmt.Errorf("%w: salary range min is above max", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}

func (r QueryRequest) Filter() CompanyAttributeFilter {
	return CompanyAttributeFilter{Type: r.EmploymentType, SalaryRange: r.SalaryRange}
}

// ResultRow é a forma normalizada de uma linha de resultado, igual para
// todos os backends.
type ResultRow struct {
	Employee   entities.Employee     `json:"employee"`
	Depth      int                   `json:"depth,omitempty"`
	Employment *entities.EmploysEdge `json:"employment,omitempty"`
}

type QueryResult struct {
	Backend    Backend       `json:"backend"`
	Kind       QueryKind     `json:"kind"`
	SnapshotID string        `json:"snapshot_id"`
	Rows       []ResultRow   `json:"rows"`
	Duration   time.Duration `json:"duration_ns"`
	Cached     bool          `json:"cached"`
}

// EmployeeIDs lists the result's employee ids in result order.
func (r *QueryResult) EmployeeIDs() []int64 {
	ids := make([]int64, 0, len(r.Rows))
	for _, row := range r.Rows {
		ids = append(ids, row.Employee.ID)
	}
	return ids
}

// Comparison is the outcome of running one request on two backends.
type Comparison struct {
	Request QueryRequest `json:"request"`
	Left    *QueryResult `json:"left"`
	Right   *QueryResult `json:"right"`
	Equal   bool         `json:"equal"`
	Diff    string       `json:"diff,omitempty"`
}
