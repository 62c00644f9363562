package validation_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/services/datagen"
	"orghierarchy/src/services/validation"
	"orghierarchy/src/test_artefacts/stubs"
)

var _ = Describe("ConsistencyValidator", func() {
	var validator *validation.ConsistencyValidator

	BeforeEach(func() {
		validator = validation.NewConsistencyValidator()
	})

	employee := func(id int64) stubs.EmployeeStub {
		return stubs.NewEmployeeStub().WithID(id).WithDepartment(1)
	}

	When("the dataset is consistent", func() {
		It("accepts the sample organisation", func() {
			// ACT
			loadErr := validator.Validate(datagen.SampleDataset())

			// ASSERT
			Expect(loadErr).To(BeNil())
		})

		It("accepts generated forests", func() {
			for seed := int64(1); seed <= 5; seed++ {
				Expect(validator.Validate(datagen.RandomDataset(200, seed))).To(BeNil())
			}
		})

		It("accepts an empty dataset", func() {
			Expect(validator.Validate(domain.Dataset{})).To(BeNil())
		})
	})

	Context("REPORTS_TO cycles", func() {
		It("cites both employees of a two-node cycle", func() {
			// ARRANGE
			dataset := stubs.NewDatasetStub().WithEmployees(
				employee(10).WithManager(20).Get(),
				employee(20).WithManager(10).Get(),
			).Get()

			// ACT
			loadErr := validator.Validate(dataset)

			// ASSERT
			Expect(loadErr).NotTo(BeNil())
			Expect(loadErr.ByRule(domain.RuleReportsToCycle)).To(Equal([]int64{10, 20}))
			Expect(errors.Is(loadErr, domain.ErrInvalidDataset)).To(BeTrue())
		})

		It("flags only cycle members, not employees leading into the cycle", func() {
			// ARRANGE: 4 -> 3 -> 1 -> 2 -> 3
			dataset := stubs.NewDatasetStub().WithEmployees(
				employee(1).WithManager(2).Get(),
				employee(2).WithManager(3).Get(),
				employee(3).WithManager(1).Get(),
				employee(4).WithManager(3).Get(),
				employee(5).Get(),
			).Get()

			// ACT
			loadErr := validator.Validate(dataset)

			// ASSERT
			Expect(loadErr.ByRule(domain.RuleReportsToCycle)).To(Equal([]int64{1, 2, 3}))
			Expect(loadErr.Cites(domain.KindEmployee, 4)).To(BeFalse())
			Expect(loadErr.Cites(domain.KindEmployee, 5)).To(BeFalse())
		})

		It("reports every disjoint cycle in one pass", func() {
			dataset := stubs.NewDatasetStub().WithEmployees(
				employee(1).WithManager(2).Get(),
				employee(2).WithManager(1).Get(),
				employee(7).WithManager(8).Get(),
				employee(8).WithManager(9).Get(),
				employee(9).WithManager(7).Get(),
			).Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleReportsToCycle)).To(Equal([]int64{1, 2, 7, 8, 9}))
		})

		It("reports a self-loop as self_report and not as a cycle", func() {
			dataset := stubs.NewDatasetStub().WithEmployees(employee(3).WithManager(3).Get()).Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleSelfReport)).To(Equal([]int64{3}))
			Expect(loadErr.ByRule(domain.RuleReportsToCycle)).To(BeEmpty())
		})
	})

	Context("dangling references", func() {
		It("cites the employee whose department does not exist", func() {
			dataset := stubs.NewDatasetStub().WithEmployees(
				employee(1).Get(),
				employee(2).WithDepartment(99).Get(),
			).Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleUnknownDepartment)).To(Equal([]int64{2}))
			Expect(loadErr.Violations).To(HaveLen(1))
		})

		It("cites the employee whose manager does not exist", func() {
			dataset := stubs.NewDatasetStub().WithEmployees(employee(1).WithManager(404).Get()).Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleUnknownManager)).To(Equal([]int64{1}))
		})

		It("cites EMPLOYS edges pointing to unknown employees", func() {
			dataset := stubs.NewDatasetStub().
				WithEmployees(employee(1).Get()).
				WithEmploys(entities.EmploysEdge{EmployeeID: 77, Type: entities.EmploymentTemporary, Salary: 10}).
				Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleUnknownEmploysTarget)).To(Equal([]int64{77}))
		})
	})

	Context("EMPLOYS cardinality", func() {
		It("requires exactly one edge per employee", func() {
			dataset := stubs.NewDatasetStub().
				WithoutAutomaticEmploys().
				WithEmployees(employee(1).Get(), employee(2).Get()).
				WithEmploys(
					entities.EmploysEdge{EmployeeID: 2, Type: entities.EmploymentPermanent, Salary: 1},
					entities.EmploysEdge{EmployeeID: 2, Type: entities.EmploymentPermanent, Salary: 2},
				).
				Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleMissingEmploysEdge)).To(Equal([]int64{1}))
			Expect(loadErr.ByRule(domain.RuleDuplicateEmploysEdge)).To(Equal([]int64{2}))
		})
	})

	Context("identifiers and fields", func() {
		It("rejects duplicated ids", func() {
			dataset := stubs.NewDatasetStub().
				WithDepartments(
					stubs.NewDepartmentStub().WithID(1).WithShortName("ENG").Get(),
					stubs.NewDepartmentStub().WithID(1).WithShortName("ENG").Get(),
				).
				WithoutAutomaticEmploys().
				WithEmployees(employee(5).Get(), employee(5).Get()).
				WithEmploys(entities.EmploysEdge{EmployeeID: 5, Type: entities.EmploymentPermanent, Salary: 1}).
				Get()

			loadErr := validator.Validate(dataset)

			Expect(loadErr.ByRule(domain.RuleDuplicateDepartmentID)).To(Equal([]int64{1}))
			Expect(loadErr.ByRule(domain.RuleDuplicateEmployeeID)).To(Equal([]int64{5}))
		})

		It("rejects two departments sharing a short name", func() {
			// ARRANGE
			dataset := stubs.NewDatasetStub().
				WithDepartments(
					stubs.NewDepartmentStub().WithID(1).WithShortName("ENG").Get(),
					stubs.NewDepartmentStub().WithID(2).WithShortName("OPS").Get(),
					stubs.NewDepartmentStub().WithID(3).WithShortName("ENG").Get(),
				).
				WithEmployees(employee(1).Get()).
				Get()

			// ACT
			loadErr := validator.Validate(dataset)

			// ASSERT
			Expect(loadErr).NotTo(BeNil())
			Expect(loadErr.ByRule(domain.RuleDuplicateShortName)).To(Equal([]int64{3}))
			Expect(loadErr.Cites(domain.KindDepartment, 1)).To(BeFalse())
		})

		It("checks record fields through struct tags", func() {
			dataset := stubs.NewDatasetStub().WithEmployees(
				employee(1).WithName("").Get(),
				employee(2).WithAge(7).Get(),
				employee(3).WithEmploymentType("contractor").Get(),
				employee(4).WithSalary(-1).Get(),
			).Get()

			loadErr := validator.Validate(dataset)

			// 3 e 4 também geram violação na aresta EMPLOYS copiada do registro
			Expect(loadErr.Cites(domain.KindEmployee, 1)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmployee, 2)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmployee, 3)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmploys, 3)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmploys, 4)).To(BeTrue())
			Expect(loadErr.ByRule(domain.RuleInvalidField)).To(ContainElements(int64(1), int64(2), int64(3), int64(4)))
		})
	})

	It("collects violations of different rules together, in a stable order", func() {
		// ARRANGE
		dataset := stubs.NewDatasetStub().WithEmployees(
			employee(1).WithManager(2).Get(),
			employee(2).WithManager(1).Get(),
			employee(3).WithDepartment(42).Get(),
			employee(4).WithManager(4).Get(),
		).Get()

		// ACT
		loadErr := validator.Validate(dataset)

		// ASSERT
		rules := make([]domain.Rule, 0, len(loadErr.Violations))
		for _, v := range loadErr.Violations {
			rules = append(rules, v.Rule)
		}
		Expect(rules).To(Equal([]domain.Rule{
			domain.RuleUnknownDepartment,
			domain.RuleSelfReport,
			domain.RuleReportsToCycle,
			domain.RuleReportsToCycle,
		}))
		Expect(loadErr.Error()).To(ContainSubstring("4 violation(s)"))
	})
})
