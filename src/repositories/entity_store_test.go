package repositories_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
	"orghierarchy/src/test_artefacts/stubs"
)

var _ = Describe("EntityStore", func() {
	var store *repositories.EntityStore

	BeforeEach(func() {
		var err error
		store, err = repositories.Load(datagen.SampleDataset())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Load", func() {
		It("assigns a snapshot id to every load", func() {
			other, err := repositories.Load(datagen.SampleDataset())

			Expect(err).NotTo(HaveOccurred())
			Expect(store.SnapshotID()).NotTo(BeEmpty())
			Expect(other.SnapshotID()).NotTo(Equal(store.SnapshotID()))
		})

		It("rejects an inconsistent dataset as a whole with a LoadError", func() {
			// ARRANGE
			dataset := stubs.NewDatasetStub().WithEmployees(
				stubs.NewEmployeeStub().WithID(1).WithManager(2).Get(),
				stubs.NewEmployeeStub().WithID(2).WithManager(1).Get(),
			).Get()

			// ACT
			rejected, err := repositories.Load(dataset)

			// ASSERT
			Expect(rejected).To(BeNil())
			Expect(errors.Is(err, domain.ErrInvalidDataset)).To(BeTrue())

			var loadErr *domain.LoadError
			Expect(errors.As(err, &loadErr)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmployee, 1)).To(BeTrue())
			Expect(loadErr.Cites(domain.KindEmployee, 2)).To(BeTrue())
		})

		It("does not share manager pointers with the caller", func() {
			// ARRANGE
			dataset := datagen.SampleDataset()
			loaded, err := repositories.Load(dataset)
			Expect(err).NotTo(HaveOccurred())

			// ACT
			*dataset.Employees[1].ManagerID = datagen.BobJones

			// ASSERT
			manager, err := loaded.Manager(datagen.JennyLane)
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.ID).To(Equal(datagen.DaveClark))
		})
	})

	Describe("accessors", func() {
		It("resolves employees and departments by id", func() {
			employee, err := store.EmployeeByID(datagen.BradJenkins)
			Expect(err).NotTo(HaveOccurred())
			Expect(employee.Name).To(Equal("Brad Jenkins"))

			department, err := store.DepartmentByID(datagen.DepartmentHR)
			Expect(err).NotTo(HaveOccurred())
			Expect(department.ShortName).To(Equal("HR"))

			byName, err := store.DepartmentByShortName("IT")
			Expect(err).NotTo(HaveOccurred())
			Expect(byName.ID).To(Equal(datagen.DepartmentIT))
		})

		It("returns NotFound for unknown ids", func() {
			_, err := store.EmployeeByID(999)
			Expect(errors.Is(err, domain.ErrEmployeeNotFound)).To(BeTrue())
			Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

			_, err = store.DepartmentByID(999)
			Expect(errors.Is(err, domain.ErrDepartmentNotFound)).To(BeTrue())

			_, err = store.DirectReports(999)
			Expect(errors.Is(err, domain.ErrEmployeeNotFound)).To(BeTrue())

			_, err = store.Members(999)
			Expect(errors.Is(err, domain.ErrDepartmentNotFound)).To(BeTrue())
		})

		It("lists direct reports by ascending id", func() {
			reports, err := store.DirectReports(datagen.DaveClark)

			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(2))
			Expect(reports[0].ID).To(Equal(datagen.JennyLane))
			Expect(reports[1].ID).To(Equal(datagen.BobJones))
		})

		It("returns no manager for a top-level employee", func() {
			manager, err := store.Manager(datagen.DaveClark)

			Expect(err).NotTo(HaveOccurred())
			Expect(manager).To(BeNil())
		})

		It("indexes department members", func() {
			members, err := store.Members(datagen.DepartmentHR)
			Expect(err).NotTo(HaveOccurred())

			ids := make([]int64, 0, len(members))
			for _, m := range members {
				ids = append(ids, m.ID)
			}
			Expect(ids).To(Equal([]int64{datagen.BobJones, datagen.JoshSimmons, datagen.JuliaGrant, datagen.EdwardSimmons}))
		})

		It("exposes the flat row view with the manager foreign key", func() {
			rows := store.Rows()

			Expect(rows).To(HaveLen(store.Size()))
			Expect(rows[0].ID).To(Equal(datagen.DaveClark))
			Expect(rows[0].ReportToID).To(BeNil())
			Expect(*rows[5].ReportToID).To(Equal(datagen.JamesLemmon))
		})

		It("keeps EMPLOYS attributes on the edge", func() {
			edge, err := store.Employs(datagen.AnnaStone)

			Expect(err).NotTo(HaveOccurred())
			Expect(string(edge.Type)).To(Equal("temporary"))
			Expect(store.EmploysEdges()).To(HaveLen(9))
		})
	})
})
