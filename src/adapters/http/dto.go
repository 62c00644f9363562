package http

import (
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
)

type HealthDTO struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
}

type EmployeeDTO struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	DepartmentID   int64  `json:"department_id"`
	ManagerID      *int64 `json:"manager_id,omitempty"`
	EmploymentType string `json:"employment_type"`
	Salary         int64  `json:"salary"`
}

type EmploymentDTO struct {
	Type   string `json:"type"`
	Salary int64  `json:"salary"`
}

type RowDTO struct {
	Employee   EmployeeDTO    `json:"employee"`
	Depth      int            `json:"depth,omitempty"`
	Employment *EmploymentDTO `json:"employment,omitempty"`
}

type QueryResponseDTO struct {
	Backend    string   `json:"backend"`
	Kind       string   `json:"kind"`
	SnapshotID string   `json:"snapshot_id"`
	DurationMs float64  `json:"duration_ms"`
	Cached     bool     `json:"cached"`
	Count      int      `json:"count"`
	Rows       []RowDTO `json:"rows"`
}

// CompareRequestDTO é o corpo de POST /v1/compare.
type CompareRequestDTO struct {
	Request CompareQueryDTO `json:"request" validate:"required"`
	Left    string          `json:"left" validate:"required,oneof=graph relational sqlite postgres neo4j"`
	Right   string          `json:"right" validate:"required,oneof=graph relational sqlite postgres neo4j,nefield=Left"`
}

type CompareQueryDTO struct {
	Kind           string              `json:"kind" validate:"required,oneof=ancestors descendants members_of_department employees_by_company_attribute"`
	EmployeeID     *int64              `json:"employee_id" validate:"required_if=Kind ancestors,required_if=Kind descendants"`
	DepartmentID   *int64              `json:"department_id" validate:"required_if=Kind members_of_department"`
	MaxDepth       *int                `json:"max_depth" validate:"omitempty,gte=0"`
	EmploymentType *string             `json:"employment_type" validate:"omitempty,oneof=permanent temporary"`
	SalaryRange    *domain.SalaryRange `json:"salary_range"`
}

type CompareResponseDTO struct {
	Equal bool             `json:"equal"`
	Diff  string           `json:"diff,omitempty"`
	Left  QueryResponseDTO `json:"left"`
	Right QueryResponseDTO `json:"right"`
}

func (c CompareQueryDTO) ToDomain() domain.QueryRequest {
	request := domain.QueryRequest{
		Kind:        domain.QueryKind(c.Kind),
		MaxDepth:    c.MaxDepth,
		SalaryRange: c.SalaryRange,
	}
	// ponteiro: id 0 é um id válido, só a ausência é erro
	if c.EmployeeID != nil {
		request.EmployeeID = *c.EmployeeID
	}
	if c.DepartmentID != nil {
		request.DepartmentID = *c.DepartmentID
	}
	if c.EmploymentType != nil {
		employmentType := entities.EmploymentType(*c.EmploymentType)
		request.EmploymentType = &employmentType
	}
	return request
}

func MapResultToResponse(result *domain.QueryResult) QueryResponseDTO {
	rows := make([]RowDTO, 0, len(result.Rows))
	for _, row := range result.Rows {
		dto := RowDTO{
			Employee: EmployeeDTO{
				ID:             row.Employee.ID,
				Name:           row.Employee.Name,
				Age:            row.Employee.Age,
				DepartmentID:   row.Employee.DepartmentID,
				ManagerID:      row.Employee.ManagerID,
				EmploymentType: string(row.Employee.EmploymentType),
				Salary:         row.Employee.Salary,
			},
			Depth: row.Depth,
		}
		if row.Employment != nil {
			dto.Employment = &EmploymentDTO{Type: string(row.Employment.Type), Salary: row.Employment.Salary}
		}
		rows = append(rows, dto)
	}

	return QueryResponseDTO{
		Backend:    string(result.Backend),
		Kind:       string(result.Kind),
		SnapshotID: result.SnapshotID,
		DurationMs: float64(result.Duration.Microseconds()) / 1000,
		Cached:     result.Cached,
		Count:      len(rows),
		Rows:       rows,
	}
}
