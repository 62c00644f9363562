package repositories_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/infra/sqlite"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
)

var _ = Describe("SQLiteHierarchyRepository", func() {
	var (
		ctx        context.Context
		store      *repositories.EntityStore
		repository *repositories.SQLiteHierarchyRepository
	)

	depth := func(n int) *int { return &n }

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		store, err = repositories.Load(datagen.SampleDataset())
		Expect(err).NotTo(HaveOccurred())

		db, err := sqlite.NewSQLiteClient(ctx, sqlite.MemoryPath)
		Expect(err).NotTo(HaveOccurred())

		repository, err = repositories.NewSQLiteHierarchyRepository(ctx, db)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(repository.Close)

		Expect(repository.Sync(ctx, store)).To(Succeed())
	})

	It("records the synced snapshot", func() {
		Expect(repository.SnapshotID()).To(Equal(store.SnapshotID()))
	})

	It("walks managers upward, nearest first", func() {
		// ACT
		rows, err := repository.Ancestors(ctx, datagen.BradJenkins, nil)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]domain.HierarchyRow{
			{EmployeeID: datagen.JamesLemmon, Depth: 1},
			{EmployeeID: datagen.JennyLane, Depth: 2},
			{EmployeeID: datagen.DaveClark, Depth: 3},
		}))
	})

	It("returns descendants in pre-order with ascending-id siblings", func() {
		rows, err := repository.Descendants(ctx, datagen.DaveClark, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]domain.HierarchyRow{
			{EmployeeID: datagen.JennyLane, Depth: 1},
			{EmployeeID: datagen.JamesLemmon, Depth: 2},
			{EmployeeID: datagen.BradJenkins, Depth: 3},
			{EmployeeID: datagen.AnnaStone, Depth: 2},
			{EmployeeID: datagen.BobJones, Depth: 1},
			{EmployeeID: datagen.JoshSimmons, Depth: 2},
			{EmployeeID: datagen.JuliaGrant, Depth: 2},
			{EmployeeID: datagen.EdwardSimmons, Depth: 3},
		}))
	})

	It("bounds the recursion by maxDepth", func() {
		rows, err := repository.Descendants(ctx, datagen.DaveClark, depth(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]domain.HierarchyRow{
			{EmployeeID: datagen.JennyLane, Depth: 1},
			{EmployeeID: datagen.BobJones, Depth: 1},
		}))

		rows, err = repository.Ancestors(ctx, datagen.BradJenkins, depth(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("lists department members and filters EMPLOYS edges", func() {
		members, err := repository.Members(ctx, datagen.DepartmentHR)
		Expect(err).NotTo(HaveOccurred())
		Expect(members).To(Equal([]int64{datagen.BobJones, datagen.JoshSimmons, datagen.JuliaGrant, datagen.EdwardSimmons}))

		temporary := entities.EmploymentTemporary
		employed, err := repository.EmployedBy(ctx, domain.CompanyAttributeFilter{Type: &temporary})
		Expect(err).NotTo(HaveOccurred())
		Expect(employed).To(HaveLen(2))
		Expect(employed[0].EmployeeID).To(Equal(datagen.AnnaStone))
		Expect(employed[1].EmployeeID).To(Equal(datagen.JoshSimmons))

		minSalary, maxSalary := int64(90000), int64(150000)
		employed, err = repository.EmployedBy(ctx, domain.CompanyAttributeFilter{SalaryRange: &domain.SalaryRange{Min: &minSalary, Max: &maxSalary}})
		Expect(err).NotTo(HaveOccurred())

		ids := make([]int64, 0, len(employed))
		for _, e := range employed {
			ids = append(ids, e.EmployeeID)
		}
		Expect(ids).To(Equal([]int64{datagen.BobJones, datagen.JamesLemmon, datagen.BradJenkins, datagen.JuliaGrant}))
	})

	It("returns NotFound for unknown identifiers", func() {
		_, err := repository.Ancestors(ctx, 999, nil)
		Expect(errors.Is(err, domain.ErrEmployeeNotFound)).To(BeTrue())

		_, err = repository.Members(ctx, 999)
		Expect(errors.Is(err, domain.ErrDepartmentNotFound)).To(BeTrue())
	})

	It("replaces the previous snapshot on a new sync", func() {
		// ARRANGE
		generated, err := repositories.Load(datagen.RandomDataset(50, 7))
		Expect(err).NotTo(HaveOccurred())

		// ACT
		Expect(repository.Sync(ctx, generated)).To(Succeed())

		// ASSERT
		Expect(repository.SnapshotID()).To(Equal(generated.SnapshotID()))
		employed, err := repository.EmployedBy(ctx, domain.CompanyAttributeFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(employed).To(HaveLen(50))
	})
})
