package datagen

import (
	"fmt"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-faker/faker/v4"
)

// RandomDataset gera uma floresta válida com size empregados. A estrutura
// (ids, gerentes, departamentos, vínculos) depende só da seed; nomes vêm do
// faker e podem variar entre execuções.
func RandomDataset(size int, seed int64) domain.Dataset {
	f := gofakeit.New(seed)

	departmentCount := size/10 + 1
	if departmentCount > 20 {
		departmentCount = 20
	}

	dataset := domain.Dataset{
		Company:     entities.Company{ID: 1, Name: f.Company()},
		Departments: make([]entities.Department, 0, departmentCount),
		Employees:   make([]entities.Employee, 0, size),
		Employs:     make([]entities.EmploysEdge, 0, size),
	}

	for i := 1; i <= departmentCount; i++ {
		dataset.Departments = append(dataset.Departments, entities.Department{
			ID:        int64(i),
			ShortName: fmt.Sprintf("D%02d", i),
			LongName:  fmt.Sprintf("%s %s", f.JobDescriptor(), faker.Word()),
		})
	}

	// ids embaralhados para que gerentes nem sempre tenham id menor
	ids := make([]int64, size)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	f.Rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	for i, id := range ids {
		employmentType := entities.EmploymentPermanent
		if f.Number(1, 4) == 1 {
			employmentType = entities.EmploymentTemporary
		}
		salary := int64(f.Number(20, 300)) * 1000

		employee := entities.Employee{
			ID:             id,
			Name:           faker.FirstName() + " " + faker.LastName(),
			Age:            f.Number(18, 70),
			Salary:         salary,
			EmploymentType: employmentType,
			DepartmentID:   int64(f.Number(1, departmentCount)),
		}

		// Posição i só aponta para posições anteriores, então não há ciclo.
		// Uma janela curta produz cadeias profundas.
		if i > 0 && f.Number(1, 10) > 1 {
			window := f.Number(1, 5)
			lower := i - window
			if lower < 0 {
				lower = 0
			}
			managerID := ids[f.Number(lower, i-1)]
			employee.ManagerID = &managerID
		}

		dataset.Employees = append(dataset.Employees, employee)
		dataset.Employs = append(dataset.Employs, entities.EmploysEdge{
			EmployeeID: id,
			Type:       employmentType,
			Salary:     salary,
		})
	}

	return dataset
}
