package datagen

import (
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
)

// Identificadores fixos do dataset de exemplo.
const (
	DaveClark int64 = iota + 1
	JennyLane
	BobJones
	JamesLemmon
	AnnaStone
	BradJenkins
	JoshSimmons
	JuliaGrant
	EdwardSimmons
)

const (
	DepartmentHR int64 = iota + 1
	DepartmentIT
)

type sampleEmployee struct {
	id             int64
	name           string
	age            int
	salary         int64
	employmentType entities.EmploymentType
	departmentID   int64
	managerID      int64
}

// SampleDataset é a organização de exemplo: nove empregados em dois
// departamentos, com Dave Clark no topo.
//
//	Dave Clark (IT)
//	├── Jenny Lane (IT)
//	│   ├── James Lemmon (IT)
//	│   │   └── Brad Jenkins (IT)
//	│   └── Anna Stone (IT)
//	└── Bob Jones (HR)
//	    ├── Josh Simmons (HR)
//	    └── Julia Grant (HR)
//	        └── Edward Simmons (HR)
func SampleDataset() domain.Dataset {
	sample := []sampleEmployee{
		{DaveClark, "Dave Clark", 52, 250000, entities.EmploymentPermanent, DepartmentIT, 0},
		{JennyLane, "Jenny Lane", 41, 160000, entities.EmploymentPermanent, DepartmentIT, DaveClark},
		{BobJones, "Bob Jones", 47, 150000, entities.EmploymentPermanent, DepartmentHR, DaveClark},
		{JamesLemmon, "James Lemmon", 36, 120000, entities.EmploymentPermanent, DepartmentIT, JennyLane},
		{AnnaStone, "Anna Stone", 29, 70000, entities.EmploymentTemporary, DepartmentIT, JennyLane},
		{BradJenkins, "Brad Jenkins", 27, 90000, entities.EmploymentPermanent, DepartmentIT, JamesLemmon},
		{JoshSimmons, "Josh Simmons", 24, 45000, entities.EmploymentTemporary, DepartmentHR, BobJones},
		{JuliaGrant, "Julia Grant", 38, 95000, entities.EmploymentPermanent, DepartmentHR, BobJones},
		{EdwardSimmons, "Edward Simmons", 31, 65000, entities.EmploymentPermanent, DepartmentHR, JuliaGrant},
	}

	dataset := domain.Dataset{
		Company: entities.Company{ID: 1, Name: "Acme Corp"},
		Departments: []entities.Department{
			{ID: DepartmentHR, ShortName: "HR", LongName: "Human Resources"},
			{ID: DepartmentIT, ShortName: "IT", LongName: "Information Technology"},
		},
	}

	for _, s := range sample {
		employee := entities.Employee{
			ID:             s.id,
			Name:           s.name,
			Age:            s.age,
			Salary:         s.salary,
			EmploymentType: s.employmentType,
			DepartmentID:   s.departmentID,
		}
		if s.managerID != 0 {
			managerID := s.managerID
			employee.ManagerID = &managerID
		}

		dataset.Employees = append(dataset.Employees, employee)
		dataset.Employs = append(dataset.Employs, entities.EmploysEdge{
			EmployeeID: s.id,
			Type:       s.employmentType,
			Salary:     s.salary,
		})
	}

	return dataset
}
