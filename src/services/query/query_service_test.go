package query_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"orghierarchy/src/infra/sqlite"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
	"orghierarchy/src/services/engines"
	"orghierarchy/src/services/query"
	"orghierarchy/src/services/telemetry"
)

type recordingRecorder struct {
	mu           sync.Mutex
	observations []telemetry.QueryObservation
}

func (r *recordingRecorder) Observe(_ context.Context, observation telemetry.QueryObservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations = append(r.observations, observation)
}

func (r *recordingRecorder) all() []telemetry.QueryObservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]telemetry.QueryObservation(nil), r.observations...)
}

// reversingEngine devolve os conjuntos em ordem decrescente, para provar que
// a fachada normaliza.
type reversingEngine struct {
	engines.TraversalEngine
}

func (r reversingEngine) Backend() domain.Backend { return domain.BackendNeo4j }

func (r reversingEngine) MembersOfDepartment(ctx context.Context, departmentID int64) ([]int64, error) {
	ids, err := r.TraversalEngine.MembersOfDepartment(ctx, departmentID)
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSampleService(recorder telemetry.Recorder) (*query.QueryService, *repositories.EntityStore) {
	store, err := repositories.Load(datagen.SampleDataset())
	Expect(err).NotTo(HaveOccurred())

	ctx := context.Background()
	db, err := sqlite.NewSQLiteClient(ctx, sqlite.MemoryPath)
	Expect(err).NotTo(HaveOccurred())
	mirror, err := repositories.NewSQLiteHierarchyRepository(ctx, db)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(mirror.Close)
	Expect(mirror.Sync(ctx, store)).To(Succeed())

	graph := engines.NewGraphEngine(store)
	service := query.NewQueryService(discardLogger(), store, recorder,
		graph,
		engines.NewRelationalEngine(store),
		engines.NewMirrorEngine(domain.BackendSQLite, mirror),
		reversingEngine{graph},
	)
	return service, store
}

var _ = Describe("QueryService", func() {
	var (
		ctx      context.Context
		recorder *recordingRecorder
		service  *query.QueryService
		store    *repositories.EntityStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		recorder = &recordingRecorder{}
		service, store = newSampleService(recorder)
	})

	It("lists registered backends in name order", func() {
		Expect(service.Backends()).To(Equal([]domain.Backend{
			domain.BackendGraph, domain.BackendNeo4j, domain.BackendRelational, domain.BackendSQLite,
		}))
		Expect(service.SnapshotID()).To(Equal(store.SnapshotID()))
	})

	It("resolves ancestors into full employee records", func() {
		// ACT
		result, err := service.Query(ctx, domain.AncestorsQuery(datagen.AnnaStone, nil), domain.BackendRelational)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Backend).To(Equal(domain.BackendRelational))
		Expect(result.Kind).To(Equal(domain.QueryAncestors))
		Expect(result.SnapshotID).To(Equal(store.SnapshotID()))
		Expect(result.Rows).To(HaveLen(2))
		Expect(result.Rows[0].Employee.Name).To(Equal("Jenny Lane"))
		Expect(result.Rows[0].Depth).To(Equal(1))
		Expect(result.Rows[1].Employee.Name).To(Equal("Dave Clark"))
		Expect(result.Rows[1].Depth).To(Equal(2))
	})

	It("sorts set-valued results by ascending id whatever the engine order", func() {
		result, err := service.Query(ctx, domain.MembersOfDepartmentQuery(datagen.DepartmentIT), domain.BackendNeo4j)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.EmployeeIDs()).To(Equal([]int64{
			datagen.DaveClark, datagen.JennyLane, datagen.JamesLemmon, datagen.AnnaStone, datagen.BradJenkins,
		}))
		for _, row := range result.Rows {
			Expect(row.Depth).To(BeZero())
			Expect(row.Employment).To(BeNil())
		}
	})

	It("attaches the EMPLOYS edge to company attribute results", func() {
		minSalary := int64(150000)
		result, err := service.Query(ctx, domain.EmployeesBySalaryQuery(domain.SalaryRange{Min: &minSalary}), domain.BackendSQLite)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.EmployeeIDs()).To(Equal([]int64{datagen.DaveClark, datagen.JennyLane, datagen.BobJones}))
		Expect(result.Rows[2].Employment).To(Equal(&entities.EmploysEdge{
			EmployeeID: datagen.BobJones, Type: entities.EmploymentPermanent, Salary: 150000,
		}))
	})

	It("rejects unknown backends and malformed requests", func() {
		_, err := service.Query(ctx, domain.AncestorsQuery(datagen.DaveClark, nil), domain.BackendPostgres)
		Expect(errors.Is(err, domain.ErrUnknownBackend)).To(BeTrue())

		_, err = service.Query(ctx, domain.QueryRequest{Kind: domain.QueryEmployeesByCompanyAttribute}, domain.BackendGraph)
		Expect(errors.Is(err, domain.ErrInvalidRequest)).To(BeTrue())

		negative := -1
		_, err = service.Query(ctx, domain.DescendantsQuery(datagen.DaveClark, &negative), domain.BackendGraph)
		Expect(errors.Is(err, domain.ErrInvalidDepth)).To(BeTrue())

		Expect(recorder.all()).To(BeEmpty())
	})

	It("reports every executed query to the recorder", func() {
		_, err := service.Query(ctx, domain.DescendantsQuery(datagen.JennyLane, nil), domain.BackendGraph)
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Query(ctx, domain.DescendantsQuery(404, nil), domain.BackendSQLite)
		Expect(errors.Is(err, domain.ErrEmployeeNotFound)).To(BeTrue())

		observations := recorder.all()
		Expect(observations).To(HaveLen(2))

		Expect(observations[0].Backend).To(Equal(domain.BackendGraph))
		Expect(observations[0].Kind).To(Equal(domain.QueryDescendants))
		Expect(observations[0].Rows).To(Equal(3))
		Expect(observations[0].Outcome()).To(Equal(telemetry.OutcomeOK))
		Expect(observations[0].SnapshotID).To(Equal(store.SnapshotID()))

		Expect(observations[1].Backend).To(Equal(domain.BackendSQLite))
		Expect(observations[1].Outcome()).To(Equal(telemetry.OutcomeNotFound))
	})

	Describe("Compare", func() {
		It("finds no difference between graph and relational answers", func() {
			comparison, err := service.Compare(ctx, domain.DescendantsQuery(datagen.DaveClark, nil), domain.BackendGraph, domain.BackendRelational)

			Expect(err).NotTo(HaveOccurred())
			Expect(comparison.Equal).To(BeTrue())
			Expect(comparison.Diff).To(BeEmpty())
			Expect(comparison.Left.Backend).To(Equal(domain.BackendGraph))
			Expect(comparison.Right.Backend).To(Equal(domain.BackendRelational))
			Expect(comparison.Left.Rows).To(HaveLen(8))
		})

		It("agrees with the SQLite mirror for every kind", func() {
			temporary := entities.EmploymentTemporary
			requests := []domain.QueryRequest{
				domain.AncestorsQuery(datagen.EdwardSimmons, nil),
				domain.DescendantsQuery(datagen.BobJones, nil),
				domain.MembersOfDepartmentQuery(datagen.DepartmentHR),
				domain.EmployeesByTypeQuery(temporary),
			}

			for _, request := range requests {
				comparison, err := service.Compare(ctx, request, domain.BackendGraph, domain.BackendSQLite)
				Expect(err).NotTo(HaveOccurred())
				Expect(comparison.Equal).To(BeTrue(), "%s: %s", request.Kind, comparison.Diff)
			}
		})

		It("fails when either side fails", func() {
			_, err := service.Compare(ctx, domain.AncestorsQuery(404, nil), domain.BackendGraph, domain.BackendRelational)

			Expect(errors.Is(err, domain.ErrEmployeeNotFound)).To(BeTrue())
		})
	})
})
