package stubs

import (
	"orghierarchy/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type DepartmentStub struct {
	department entities.Department
}

func NewDepartmentStub() DepartmentStub {
	return DepartmentStub{department: entities.Department{
		ID:        gofakeit.Int64(),
		ShortName: gofakeit.LetterN(3),
		LongName:  gofakeit.JobDescriptor(),
	}}
}

func (ds DepartmentStub) WithID(id int64) DepartmentStub {
	ds.department.ID = id
	return ds
}

func (ds DepartmentStub) WithShortName(shortName string) DepartmentStub {
	ds.department.ShortName = shortName
	return ds
}

func (ds DepartmentStub) Get() entities.Department {
	return ds.department
}
