package test_seeder

import (
	"context"
	"fmt"
	"orghierarchy/src/domain/entities"
)

// InsertDepartment inserts a department row directly
func (ts TestSeeder) InsertDepartment(ctx context.Context, department entities.Department) {
	query := `INSERT INTO departments (id, short_name, long_name) VALUES ($1, $2, $3)`

	if _, err := ts.pool.Exec(ctx, query, department.ID, department.ShortName, department.LongName); err != nil {
		panic(fmt.Sprintf("Seeder.InsertDepartment failed: %v", err))
	}
}

// InsertEmployee inserts an employee row directly; its department must exist
func (ts TestSeeder) InsertEmployee(ctx context.Context, employee entities.Employee) {
	query := `
		INSERT INTO employees (id, name, age, salary, employment_type, department_id, report_to_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := ts.pool.Exec(ctx, query,
		employee.ID,
		employee.Name,
		employee.Age,
		employee.Salary,
		string(employee.EmploymentType),
		employee.DepartmentID,
		employee.ManagerID,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEmployee failed: %v", err))
	}
}
