package repositories

import (
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/services/validation"
	"sort"

	"github.com/google/uuid"
)

// EntityStore é a fonte única da verdade para todos os backends. Depois de
// Load nada nele muda, então pode ser lido por qualquer número de goroutines
// sem lock.
type EntityStore struct {
	snapshotID string
	company    entities.Company

	employees   map[int64]entities.Employee
	departments map[int64]entities.Department
	byShortName map[string]int64
	employs     map[int64]entities.EmploysEdge

	// Índices de adjacência montados uma vez na carga.
	parentOf   map[int64]int64
	childrenOf map[int64][]int64
	membersOf  map[int64][]int64

	orderedEmployees   []int64
	orderedDepartments []int64
	rows               []domain.EmployeeRow
}

// Load validates the dataset and, when it is consistent, freezes it into a
// store. A dataset with any violation is rejected whole with a
// *domain.LoadError.
func Load(dataset domain.Dataset) (*EntityStore, error) {
	return LoadWith(validation.NewConsistencyValidator(), dataset)
}

func LoadWith(validator *validation.ConsistencyValidator, dataset domain.Dataset) (*EntityStore, error) {
	if loadErr := validator.Validate(dataset); loadErr != nil {
		return nil, loadErr
	}

	store := &EntityStore{
		snapshotID:  uuid.NewString(),
		company:     dataset.Company,
		employees:   make(map[int64]entities.Employee, len(dataset.Employees)),
		departments: make(map[int64]entities.Department, len(dataset.Departments)),
		byShortName: make(map[string]int64, len(dataset.Departments)),
		employs:     make(map[int64]entities.EmploysEdge, len(dataset.Employs)),
		parentOf:    make(map[int64]int64, len(dataset.Employees)),
		childrenOf:  make(map[int64][]int64),
		membersOf:   make(map[int64][]int64, len(dataset.Departments)),
	}

	for _, d := range dataset.Departments {
		store.departments[d.ID] = d
		store.byShortName[d.ShortName] = d.ID
		store.orderedDepartments = append(store.orderedDepartments, d.ID)
	}

	for _, e := range dataset.Employees {
		e = detach(e)
		store.employees[e.ID] = e
		store.orderedEmployees = append(store.orderedEmployees, e.ID)
		store.membersOf[e.DepartmentID] = append(store.membersOf[e.DepartmentID], e.ID)

		if e.ManagerID != nil {
			store.parentOf[e.ID] = *e.ManagerID
			store.childrenOf[*e.ManagerID] = append(store.childrenOf[*e.ManagerID], e.ID)
		}
	}

	for _, edge := range dataset.Employs {
		store.employs[edge.EmployeeID] = edge
	}

	sortIDs(store.orderedEmployees)
	sortIDs(store.orderedDepartments)
	for _, children := range store.childrenOf {
		sortIDs(children)
	}
	for _, members := range store.membersOf {
		sortIDs(members)
	}

	store.rows = make([]domain.EmployeeRow, 0, len(store.orderedEmployees))
	for _, id := range store.orderedEmployees {
		e := store.employees[id]
		store.rows = append(store.rows, domain.EmployeeRow{ID: e.ID, ReportToID: e.ManagerID, DepartmentID: e.DepartmentID})
	}

	return store, nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func (s *EntityStore) SnapshotID() string {
	return s.snapshotID
}

func (s *EntityStore) Company() entities.Company {
	return s.company
}

// Size is the number of employees.
func (s *EntityStore) Size() int {
	return len(s.orderedEmployees)
}

func (s *EntityStore) HasEmployee(id int64) bool {
	_, ok := s.employees[id]
	return ok
}

func (s *EntityStore) HasDepartment(id int64) bool {
	_, ok := s.departments[id]
	return ok
}

func (s *EntityStore) EmployeeByID(id int64) (entities.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return entities.Employee{}, fmt.Errorf("EntityStore.EmployeeByID - id %d: %w", id, domain.ErrEmployeeNotFound)
	}
	return detach(e), nil
}

func (s *EntityStore) DepartmentByID(id int64) (entities.Department, error) {
	d, ok := s.departments[id]
	if !ok {
		return entities.Department{}, fmt.Errorf("EntityStore.DepartmentByID - id %d: %w", id, domain.ErrDepartmentNotFound)
	}
	return d, nil
}

func (s *EntityStore) DepartmentByShortName(shortName string) (entities.Department, error) {
	id, ok := s.byShortName[shortName]
	if !ok {
		return entities.Department{}, fmt.Errorf("EntityStore.DepartmentByShortName - %q: %w", shortName, domain.ErrDepartmentNotFound)
	}
	return s.departments[id], nil
}

// DirectReports returns the employees whose manager is id, by ascending id.
func (s *EntityStore) DirectReports(id int64) ([]entities.Employee, error) {
	if !s.HasEmployee(id) {
		return nil, fmt.Errorf("EntityStore.DirectReports - id %d: %w", id, domain.ErrEmployeeNotFound)
	}
	return s.resolve(s.childrenOf[id]), nil
}

// DirectReportIDs is DirectReports without resolving records. The returned
// slice belongs to the store and must not be modified.
func (s *EntityStore) DirectReportIDs(id int64) []int64 {
	return s.childrenOf[id]
}

// Manager returns nil for a top-level employee.
func (s *EntityStore) Manager(id int64) (*entities.Employee, error) {
	if !s.HasEmployee(id) {
		return nil, fmt.Errorf("EntityStore.Manager - id %d: %w", id, domain.ErrEmployeeNotFound)
	}

	parentID, ok := s.parentOf[id]
	if !ok {
		return nil, nil
	}

	manager := detach(s.employees[parentID])
	return &manager, nil
}

// ManagerID is Manager without resolving the record.
func (s *EntityStore) ManagerID(id int64) (int64, bool) {
	parentID, ok := s.parentOf[id]
	return parentID, ok
}

// Members returns the employees of a department by ascending id.
func (s *EntityStore) Members(departmentID int64) ([]entities.Employee, error) {
	if !s.HasDepartment(departmentID) {
		return nil, fmt.Errorf("EntityStore.Members - department %d: %w", departmentID, domain.ErrDepartmentNotFound)
	}
	return s.resolve(s.membersOf[departmentID]), nil
}

func (s *EntityStore) Employs(id int64) (entities.EmploysEdge, error) {
	edge, ok := s.employs[id]
	if !ok {
		return entities.EmploysEdge{}, fmt.Errorf("EntityStore.Employs - id %d: %w", id, domain.ErrEmployeeNotFound)
	}
	return edge, nil
}

// EmploysEdges returns the company's out-edges by ascending employee id.
func (s *EntityStore) EmploysEdges() []entities.EmploysEdge {
	edges := make([]entities.EmploysEdge, 0, len(s.orderedEmployees))
	for _, id := range s.orderedEmployees {
		edges = append(edges, s.employs[id])
	}
	return edges
}

func (s *EntityStore) Employees() []entities.Employee {
	return s.resolve(s.orderedEmployees)
}

func (s *EntityStore) Departments() []entities.Department {
	departments := make([]entities.Department, 0, len(s.orderedDepartments))
	for _, id := range s.orderedDepartments {
		departments = append(departments, s.departments[id])
	}
	return departments
}

// Rows is the flat tuple view of the employee relation, ordered by id. The
// slice is shared by every reader and must not be modified.
func (s *EntityStore) Rows() []domain.EmployeeRow {
	return s.rows
}

func (s *EntityStore) resolve(ids []int64) []entities.Employee {
	out := make([]entities.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, detach(s.employees[id]))
	}
	return out
}

// detach copies the manager pointer so no caller shares memory with the
// snapshot.
func detach(e entities.Employee) entities.Employee {
	if e.ManagerID != nil {
		managerID := *e.ManagerID
		e.ManagerID = &managerID
	}
	return e
}
