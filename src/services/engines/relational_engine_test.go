package engines_test

import (
	"context"
	"errors"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
	"orghierarchy/src/services/engines"
	"orghierarchy/src/test_artefacts/comparer"
)

// cyclicTables simula uma tabela que escapou da validação de carga.
type cyclicTables struct {
	rows []domain.EmployeeRow
}

func (c cyclicTables) Rows() []domain.EmployeeRow { return c.rows }

func (c cyclicTables) Departments() []entities.Department {
	return []entities.Department{{ID: 1, ShortName: "ENG"}}
}

func (c cyclicTables) EmploysEdges() []entities.EmploysEdge { return nil }

func ptr(id int64) *int64 { return &id }

var _ = Describe("RelationalEngine", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("when the relation holds a REPORTS_TO cycle", func() {
		var engine *engines.RelationalEngine

		BeforeEach(func() {
			// ARRANGE: 1 -> 2 -> 3 -> 1, mais 4 -> 1 fora do ciclo
			engine = engines.NewRelationalEngine(cyclicTables{rows: []domain.EmployeeRow{
				{ID: 1, ReportToID: ptr(3), DepartmentID: 1},
				{ID: 2, ReportToID: ptr(1), DepartmentID: 1},
				{ID: 3, ReportToID: ptr(2), DepartmentID: 1},
				{ID: 4, ReportToID: ptr(1), DepartmentID: 1},
			}})
		})

		It("fails with CycleDetected instead of looping", func() {
			// ACT
			_, ancestorsErr := engine.Ancestors(ctx, 4, nil)
			_, descendantsErr := engine.Descendants(ctx, 1, nil)

			// ASSERT
			Expect(errors.Is(ancestorsErr, domain.ErrCycleDetected)).To(BeTrue())
			Expect(errors.Is(descendantsErr, domain.ErrCycleDetected)).To(BeTrue())
		})

		It("still answers when maxDepth ends the recursion before the bound", func() {
			rows, err := engine.Ancestors(ctx, 4, depth(2))

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal([]domain.HierarchyRow{
				{EmployeeID: 1, Depth: 1},
				{EmployeeID: 3, Depth: 2},
			}))
		})
	})

	It("stops when the context is canceled", func() {
		store, err := repositories.Load(datagen.SampleDataset())
		Expect(err).NotTo(HaveOccurred())

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = engines.NewRelationalEngine(store).Descendants(canceled, datagen.DaveClark, nil)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("GraphEngine and RelationalEngine", func() {
	It("agree on every employee of a generated organisation", func() {
		// ARRANGE
		ctx := context.Background()
		store, err := repositories.Load(datagen.RandomDataset(120, 2024))
		Expect(err).NotTo(HaveOccurred())

		graph := engines.NewGraphEngine(store)
		relational := engines.NewRelationalEngine(store)

		longestChain := 0
		for _, employee := range store.Employees() {
			rows, err := graph.Ancestors(ctx, employee.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			longestChain = max(longestChain, len(rows))
		}
		maxDepths := []*int{nil}
		for n := 0; n <= longestChain+1; n++ {
			maxDepths = append(maxDepths, depth(n))
		}

		// ACT / ASSERT
		for _, employee := range store.Employees() {
			for _, maxDepth := range maxDepths {
				fromGraph, err := graph.Descendants(ctx, employee.ID, maxDepth)
				Expect(err).NotTo(HaveOccurred())
				fromRelational, err := relational.Descendants(ctx, employee.ID, maxDepth)
				Expect(err).NotTo(HaveOccurred())
				Expect(fromRelational).To(Equal(fromGraph), "descendants of %d", employee.ID)

				fromGraph, err = graph.Ancestors(ctx, employee.ID, maxDepth)
				Expect(err).NotTo(HaveOccurred())
				fromRelational, err = relational.Ancestors(ctx, employee.ID, maxDepth)
				Expect(err).NotTo(HaveOccurred())
				Expect(fromRelational).To(Equal(fromGraph), "ancestors of %d", employee.ID)
			}
		}
	})

	It("return each management chain link by link, never longer than the organisation", func() {
		// ARRANGE
		ctx := context.Background()
		store, err := repositories.Load(datagen.RandomDataset(150, 77))
		Expect(err).NotTo(HaveOccurred())

		for _, engine := range []engines.TraversalEngine{engines.NewGraphEngine(store), engines.NewRelationalEngine(store)} {
			for _, employee := range store.Employees() {
				// ACT
				rows, err := engine.Ancestors(ctx, employee.ID, nil)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(len(rows)).To(BeNumerically("<=", store.Size()-1))

				managerID, hasManager := store.ManagerID(employee.ID)
				if !hasManager {
					Expect(rows).To(BeEmpty(), "%s: top-level employee %d", engine.Backend(), employee.ID)
					continue
				}
				Expect(rows).NotTo(BeEmpty())
				Expect(rows[0]).To(Equal(domain.HierarchyRow{EmployeeID: managerID, Depth: 1}))

				for i := 0; i+1 < len(rows); i++ {
					next, ok := store.ManagerID(rows[i].EmployeeID)
					Expect(ok).To(BeTrue(), "%s: chain of %d breaks at %d", engine.Backend(), employee.ID, rows[i].EmployeeID)
					Expect(rows[i+1]).To(Equal(domain.HierarchyRow{EmployeeID: next, Depth: i + 2}))
				}

				_, lastHasManager := store.ManagerID(rows[len(rows)-1].EmployeeID)
				Expect(lastHasManager).To(BeFalse(), "%s: chain of %d stops below the top", engine.Backend(), employee.ID)
			}
		}
	})

	It("reach every employee from the top-level managers exactly once", func() {
		ctx := context.Background()
		store, err := repositories.Load(datagen.RandomDataset(80, 11))
		Expect(err).NotTo(HaveOccurred())

		graph := engines.NewGraphEngine(store)
		seen := make(map[int64]int)

		for _, employee := range store.Employees() {
			if !employee.IsTopLevel() {
				continue
			}
			seen[employee.ID]++

			rows, err := graph.Descendants(ctx, employee.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			for _, id := range hierarchyIDs(rows) {
				seen[id]++
			}
		}

		reached := make([]int64, 0, len(seen))
		for id, count := range seen {
			Expect(count).To(Equal(1), "employee %d", id)
			reached = append(reached, id)
		}

		all := make([]int64, 0, store.Size())
		for _, employee := range store.Employees() {
			all = append(all, employee.ID)
		}
		Expect(cmp.Diff(all, reached, comparer.UnorderedIDs())).To(BeEmpty())
	})
})
