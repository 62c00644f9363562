package stubs

import (
	"orghierarchy/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type EmployeeStub struct {
	employee entities.Employee
}

func NewEmployeeStub() EmployeeStub {
	employee := entities.Employee{
		ID:             gofakeit.Int64(),
		Name:           gofakeit.Name(),
		Age:            gofakeit.Number(18, 70),
		Salary:         int64(gofakeit.Number(20, 300)) * 1000,
		EmploymentType: entities.EmploymentPermanent,
		DepartmentID:   1,
	}

	return EmployeeStub{employee: employee}
}

func (es EmployeeStub) WithID(id int64) EmployeeStub {
	es.employee.ID = id
	return es
}

func (es EmployeeStub) WithName(name string) EmployeeStub {
	es.employee.Name = name
	return es
}

func (es EmployeeStub) WithAge(age int) EmployeeStub {
	es.employee.Age = age
	return es
}

func (es EmployeeStub) WithSalary(salary int64) EmployeeStub {
	es.employee.Salary = salary
	return es
}

func (es EmployeeStub) WithEmploymentType(employmentType entities.EmploymentType) EmployeeStub {
	es.employee.EmploymentType = employmentType
	return es
}

func (es EmployeeStub) WithDepartment(departmentID int64) EmployeeStub {
	es.employee.DepartmentID = departmentID
	return es
}

func (es EmployeeStub) WithManager(managerID int64) EmployeeStub {
	es.employee.ManagerID = &managerID
	return es
}

func (es EmployeeStub) Get() entities.Employee {
	return es.employee
}
