package entities

type RelationshipType string

const (
	RelationshipMemberOf  RelationshipType = "MEMBER_OF"
	RelationshipReportsTo RelationshipType = "REPORTS_TO"
	RelationshipEmploys   RelationshipType = "EMPLOYS"
)

// Company é a raiz única que emprega todos os funcionários.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EmploysEdge é a aresta Company -> Employee. Tipo e salário ficam na
// aresta, não no funcionário, como propriedades de relacionamento.
type EmploysEdge struct {
	EmployeeID int64          `json:"employee_id"`
	Type       EmploymentType `json:"type" validate:"oneof=permanent temporary"`
	Salary     int64          `json:"salary" validate:"gte=0"`
}
