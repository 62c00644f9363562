package stubs

import (
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
)

// DatasetStub monta datasets pequenos para testes. Por padrão cada
// empregado adicionado ganha o seu vínculo EMPLOYS com os mesmos tipo e
// salário do registro.
type DatasetStub struct {
	dataset     domain.Dataset
	skipEmploys bool
}

func NewDatasetStub() DatasetStub {
	return DatasetStub{dataset: domain.Dataset{
		Company:     entities.Company{ID: 1, Name: "Test Corp"},
		Departments: []entities.Department{NewDepartmentStub().WithID(1).WithShortName("ENG").Get()},
	}}
}

func (ds DatasetStub) WithDepartments(departments ...entities.Department) DatasetStub {
	ds.dataset.Departments = append([]entities.Department(nil), departments...)
	return ds
}

// WithoutAutomaticEmploys desliga a criação automática de EMPLOYS para os
// empregados adicionados depois dela.
func (ds DatasetStub) WithoutAutomaticEmploys() DatasetStub {
	ds.skipEmploys = true
	return ds
}

func (ds DatasetStub) WithEmployees(employees ...entities.Employee) DatasetStub {
	ds.dataset.Employees = append(append([]entities.Employee(nil), ds.dataset.Employees...), employees...)
	if ds.skipEmploys {
		return ds
	}

	edges := append([]entities.EmploysEdge(nil), ds.dataset.Employs...)
	for _, e := range employees {
		edges = append(edges, entities.EmploysEdge{EmployeeID: e.ID, Type: e.EmploymentType, Salary: e.Salary})
	}
	ds.dataset.Employs = edges
	return ds
}

func (ds DatasetStub) WithEmploys(edges ...entities.EmploysEdge) DatasetStub {
	ds.dataset.Employs = append(append([]entities.EmploysEdge(nil), ds.dataset.Employs...), edges...)
	return ds
}

func (ds DatasetStub) Get() domain.Dataset {
	return ds.dataset
}
