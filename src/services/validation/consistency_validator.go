package validation

import (
	"errors"
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ConsistencyValidator checks a dataset before the store accepts it. It never
// stops at the first problem: every violation is collected.
type ConsistencyValidator struct {
	fields *validator.Validate
}

func NewConsistencyValidator() *ConsistencyValidator {
	return &ConsistencyValidator{fields: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil when the dataset is consistent.
func (cv *ConsistencyValidator) Validate(dataset domain.Dataset) *domain.LoadError {
	loadErr := &domain.LoadError{}

	departments := cv.indexDepartments(dataset.Departments, loadErr)
	employees := cv.indexEmployees(dataset.Employees, loadErr)

	cv.checkReferences(dataset.Employees, employees, departments, loadErr)
	cv.checkCycles(employees, loadErr)
	cv.checkEmploys(dataset.Employs, employees, loadErr)

	if !loadErr.HasViolations() {
		return nil
	}

	loadErr.Sort()
	return loadErr
}

func (cv *ConsistencyValidator) indexDepartments(departments []entities.Department, loadErr *domain.LoadError) map[int64]entities.Department {
	index := make(map[int64]entities.Department, len(departments))
	shortNames := make(map[string]int64, len(departments))
	for _, d := range departments {
		if _, exists := index[d.ID]; exists {
			loadErr.Add(domain.Violation{Rule: domain.RuleDuplicateDepartmentID, Kind: domain.KindDepartment, ID: d.ID, Detail: "department id used more than once"})
			continue
		}
		index[d.ID] = d
		// a busca por short name resolve para um único departamento
		if first, taken := shortNames[d.ShortName]; taken {
			loadErr.Add(domain.Violation{Rule: domain.RuleDuplicateShortName, Kind: domain.KindDepartment, ID: d.ID, Detail: fmt.Sprintf("short name %q already used by department %d", d.ShortName, first)})
		} else {
			shortNames[d.ShortName] = d.ID
		}
		cv.checkFields(d, domain.KindDepartment, d.ID, loadErr)
	}
	return index
}

func (cv *ConsistencyValidator) indexEmployees(employees []entities.Employee, loadErr *domain.LoadError) map[int64]entities.Employee {
	index := make(map[int64]entities.Employee, len(employees))
	for _, e := range employees {
		if _, exists := index[e.ID]; exists {
			loadErr.Add(domain.Violation{Rule: domain.RuleDuplicateEmployeeID, Kind: domain.KindEmployee, ID: e.ID, Detail: "employee id used more than once"})
			continue
		}
		index[e.ID] = e
		cv.checkFields(e, domain.KindEmployee, e.ID, loadErr)
	}
	return index
}

func (cv *ConsistencyValidator) checkFields(record any, kind domain.EntityKind, id int64, loadErr *domain.LoadError) {
	err := cv.fields.Struct(record)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		loadErr.Add(domain.Violation{Rule: domain.RuleInvalidField, Kind: kind, ID: id, Detail: err.Error()})
		return
	}

	for _, fe := range fieldErrs {
		detail := fmt.Sprintf("field %s failed %q", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			detail = fmt.Sprintf("field %s failed %q (%s)", fe.Field(), fe.Tag(), fe.Param())
		}
		loadErr.Add(domain.Violation{Rule: domain.RuleInvalidField, Kind: kind, ID: id, Detail: detail})
	}
}

func (cv *ConsistencyValidator) checkReferences(
	all []entities.Employee,
	employees map[int64]entities.Employee,
	departments map[int64]entities.Department,
	loadErr *domain.LoadError,
) {
	seen := make(map[int64]bool, len(all))
	for _, e := range all {
		// Duplicados já foram reportados; checamos só a primeira ocorrência.
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true

		if _, ok := departments[e.DepartmentID]; !ok {
			loadErr.Add(domain.Violation{
				Rule:   domain.RuleUnknownDepartment,
				Kind:   domain.KindEmployee,
				ID:     e.ID,
				Detail: fmt.Sprintf("department %d does not exist", e.DepartmentID),
			})
		}

		if e.ManagerID == nil {
			continue
		}

		switch managerID := *e.ManagerID; {
		case managerID == e.ID:
			loadErr.Add(domain.Violation{Rule: domain.RuleSelfReport, Kind: domain.KindEmployee, ID: e.ID, Detail: "employee reports to itself"})
		default:
			if _, ok := employees[managerID]; !ok {
				loadErr.Add(domain.Violation{
					Rule:   domain.RuleUnknownManager,
					Kind:   domain.KindEmployee,
					ID:     e.ID,
					Detail: fmt.Sprintf("manager %d does not exist", managerID),
				})
			}
		}
	}
}

// checkCycles flags every employee that sits on a REPORTS_TO cycle. Each
// employee has at most one outgoing edge, so one walk per unvisited employee,
// stopping at anything already settled, visits every node once.
func (cv *ConsistencyValidator) checkCycles(employees map[int64]entities.Employee, loadErr *domain.LoadError) {
	managers := make(map[int64]int64, len(employees))
	for id, e := range employees {
		if e.ManagerID == nil || *e.ManagerID == id {
			continue
		}
		if _, ok := employees[*e.ManagerID]; ok {
			managers[id] = *e.ManagerID
		}
	}

	ids := make([]int64, 0, len(employees))
	for id := range employees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	settled := make(map[int64]bool, len(employees))
	for _, start := range ids {
		if settled[start] {
			continue
		}

		var path []int64
		onPath := make(map[int64]int)

		for current := start; ; {
			if settled[current] {
				break
			}
			if idx, ok := onPath[current]; ok {
				for _, member := range path[idx:] {
					loadErr.Add(domain.Violation{
						Rule:   domain.RuleReportsToCycle,
						Kind:   domain.KindEmployee,
						ID:     member,
						Detail: fmt.Sprintf("employee reports to itself through a chain of %d", len(path)-idx),
					})
				}
				break
			}

			onPath[current] = len(path)
			path = append(path, current)

			next, ok := managers[current]
			if !ok {
				break
			}
			current = next
		}

		for _, id := range path {
			settled[id] = true
		}
	}
}

func (cv *ConsistencyValidator) checkEmploys(edges []entities.EmploysEdge, employees map[int64]entities.Employee, loadErr *domain.LoadError) {
	counts := make(map[int64]int, len(edges))
	for _, edge := range edges {
		if _, ok := employees[edge.EmployeeID]; !ok {
			loadErr.Add(domain.Violation{
				Rule:   domain.RuleUnknownEmploysTarget,
				Kind:   domain.KindEmploys,
				ID:     edge.EmployeeID,
				Detail: fmt.Sprintf("EMPLOYS edge points to unknown employee %d", edge.EmployeeID),
			})
			continue
		}
		counts[edge.EmployeeID]++
		cv.checkFields(edge, domain.KindEmploys, edge.EmployeeID, loadErr)
	}

	for id := range employees {
		switch counts[id] {
		case 1:
		case 0:
			loadErr.Add(domain.Violation{Rule: domain.RuleMissingEmploysEdge, Kind: domain.KindEmployee, ID: id, Detail: "employee has no EMPLOYS edge"})
		default:
			loadErr.Add(domain.Violation{
				Rule:   domain.RuleDuplicateEmploysEdge,
				Kind:   domain.KindEmployee,
				ID:     id,
				Detail: fmt.Sprintf("employee has %d EMPLOYS edges", counts[id]),
			})
		}
	}
}
