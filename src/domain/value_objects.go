package domain

import (
	"errors"
	"fmt"
	"orghierarchy/src/domain/entities"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmployeeNotFound   = fmt.Errorf("employee %w", ErrNotFound)
	ErrDepartmentNotFound = fmt.Errorf("department %w", ErrNotFound)

	// Guarda do motor relacional: só acontece se a validação de carga falhou em pegar um ciclo.
	ErrCycleDetected = errors.New("cycle detected: recursive join exceeded its iteration bound")

	ErrInvalidDataset = errors.New("dataset rejected by consistency validation")
	ErrInvalidDepth   = errors.New("maxDepth must not be negative")
	ErrInvalidRequest = errors.New("invalid query request")
	ErrUnknownBackend = errors.New("unknown backend")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// ############################################################
// ################ DATASET DE ENTRADA (SEED) #################
// ############################################################

// Dataset agrupa as três sequências de seed mais a empresa raiz.
type Dataset struct {
	Company     entities.Company       `json:"company"`
	Employees   []entities.Employee    `json:"employees"`
	Departments []entities.Department  `json:"departments"`
	Employs     []entities.EmploysEdge `json:"employs"`
}

// EmployeeRow is the flat tuple view of an employee, the shape a relational
// engine sees: a row with a foreign key to its manager.
type EmployeeRow struct {
	ID           int64
	ReportToID   *int64
	DepartmentID int64
}

// ############################################################
// ############### RESULTADOS DOS MOTORES #####################
// ############################################################

// HierarchyRow is one employee reached by a hierarchy traversal, at Depth
// REPORTS_TO hops from the queried employee.
type HierarchyRow struct {
	EmployeeID int64
	Depth      int
}

// EmployedRow is one EMPLOYS edge matched by a company attribute filter.
type EmployedRow struct {
	EmployeeID int64
	Edge       entities.EmploysEdge
}

// SalaryRange is inclusive on both ends; a nil bound is open.
type SalaryRange struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

func (r SalaryRange) Contains(salary int64) bool {
	if r.Min != nil && salary < *r.Min {
		return false
	}
	if r.Max != nil && salary > *r.Max {
		return false
	}
	return true
}

// CompanyAttributeFilter selects EMPLOYS edges by their attributes. Nil
// fields do not filter.
type CompanyAttributeFilter struct {
	Type        *entities.EmploymentType
	SalaryRange *SalaryRange
}

func (f CompanyAttributeFilter) Matches(edge entities.EmploysEdge) bool {
	if f.Type != nil && edge.Type != *f.Type {
		return false
	}
	if f.SalaryRange != nil && !f.SalaryRange.Contains(edge.Salary) {
		return false
	}
	return true
}

// DepthAllows reports whether a row at the given depth is within maxDepth.
// It also validates maxDepth, returning ErrInvalidDepth when negative.
func DepthAllows(maxDepth *int, depth int) (bool, error) {
	if maxDepth == nil {
		return true, nil
	}
	if *maxDepth < 0 {
		return false, fmt.Errorf("%w: got %d", ErrInvalidDepth, *maxDepth)
	}
	return depth <= *maxDepth, nil
}
