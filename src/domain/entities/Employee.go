package entities

type EmploymentType string

const (
	EmploymentPermanent EmploymentType = "permanent"
	EmploymentTemporary EmploymentType = "temporary"
)

// É o "nó" principal do organograma.
type Employee struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name" validate:"required"`
	Age            int            `json:"age" validate:"gte=16,lte=120"`
	Salary         int64          `json:"salary" validate:"gte=0"`
	EmploymentType EmploymentType `json:"employment_type" validate:"oneof=permanent temporary"`
	DepartmentID   int64          `json:"department_id"`
	// Ausente para quem não reporta a ninguém (topo da hierarquia).
	ManagerID *int64 `json:"manager_id,omitempty"`
}

// IsTopLevel reports whether the employee has no manager.
func (e Employee) IsTopLevel() bool {
	return e.ManagerID == nil
}
