package query

import (
	"context"
	"fmt"
	"log/slog"
	"orghierarchy/src/domain"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/engines"
	"orghierarchy/src/services/telemetry"
	"sort"
	"time"
)

// QueryService é a fachada única de consultas: valida o pedido, escolhe o
// motor pelo backend, resolve os ids no store canônico e mede o tempo.
type QueryService struct {
	logger   *slog.Logger
	store    *repositories.EntityStore
	engines  map[domain.Backend]engines.TraversalEngine
	recorder telemetry.Recorder
}

func NewQueryService(
	logger *slog.Logger,
	store *repositories.EntityStore,
	recorder telemetry.Recorder,
	traversalEngines ...engines.TraversalEngine,
) *QueryService {
	if recorder == nil {
		recorder = telemetry.NopRecorder{}
	}

	byBackend := make(map[domain.Backend]engines.TraversalEngine, len(traversalEngines))
	for _, engine := range traversalEngines {
		byBackend[engine.Backend()] = engine
	}

	return &QueryService{
		logger:   logger,
		store:    store,
		engines:  byBackend,
		recorder: recorder,
	}
}

func (s *QueryService) SnapshotID() string {
	return s.store.SnapshotID()
}

// Backends lists the registered backends in name order.
func (s *QueryService) Backends() []domain.Backend {
	backends := make([]domain.Backend, 0, len(s.engines))
	for backend := range s.engines {
		backends = append(backends, backend)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i] < backends[j] })
	return backends
}

func (s *QueryService) Query(ctx context.Context, request domain.QueryRequest, backend domain.Backend) (*domain.QueryResult, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("QueryService.Query - %w", err)
	}

	engine, ok := s.engines[backend]
	if !ok {
		return nil, fmt.Errorf("QueryService.Query - %w: %q is not registered", domain.ErrUnknownBackend, backend)
	}

	start := time.Now()
	rows, err := s.run(ctx, engine, request)
	duration := time.Since(start)

	s.recorder.Observe(ctx, telemetry.QueryObservation{
		Backend:    backend,
		Kind:       request.Kind,
		SnapshotID: s.store.SnapshotID(),
		Duration:   duration,
		Rows:       len(rows),
		Err:        err,
	})

	if err != nil {
		s.logger.Debug("Query failed", "backend", backend, "kind", request.Kind, "error", err)
		return nil, fmt.Errorf("QueryService.Query - %w", err)
	}

	s.logger.Debug("Query executed", "backend", backend, "kind", request.Kind, "rows", len(rows), "duration", duration)

	return &domain.QueryResult{
		Backend:    backend,
		Kind:       request.Kind,
		SnapshotID: s.store.SnapshotID(),
		Rows:       rows,
		Duration:   duration,
	}, nil
}

func (s *QueryService) run(ctx context.Context, engine engines.TraversalEngine, request domain.QueryRequest) ([]domain.ResultRow, error) {
	switch request.Kind {
	case domain.QueryAncestors:
		hierarchy, err := engine.Ancestors(ctx, request.EmployeeID, request.MaxDepth)
		if err != nil {
			return nil, err
		}
		return s.resolveHierarchy(hierarchy)

	case domain.QueryDescendants:
		hierarchy, err := engine.Descendants(ctx, request.EmployeeID, request.MaxDepth)
		if err != nil {
			return nil, err
		}
		return s.resolveHierarchy(hierarchy)

	case domain.QueryMembersOfDepartment:
		ids, err := engine.MembersOfDepartment(ctx, request.DepartmentID)
		if err != nil {
			return nil, err
		}
		return s.resolveMembers(ids)

	case domain.QueryEmployeesByCompanyAttribute:
		employed, err := engine.EmployedBy(ctx, request.Filter())
		if err != nil {
			return nil, err
		}
		return s.resolveEmployed(employed)
	}

	return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidRequest, request.Kind)
}

func (s *QueryService) resolveHierarchy(hierarchy []domain.HierarchyRow) ([]domain.ResultRow, error) {
	rows := make([]domain.ResultRow, 0, len(hierarchy))
	for _, h := range hierarchy {
		employee, err := s.store.EmployeeByID(h.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("backend returned an employee outside the snapshot: %w", err)
		}
		rows = append(rows, domain.ResultRow{Employee: employee, Depth: h.Depth})
	}
	return rows, nil
}

func (s *QueryService) resolveMembers(ids []int64) ([]domain.ResultRow, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows := make([]domain.ResultRow, 0, len(sorted))
	for _, id := range sorted {
		employee, err := s.store.EmployeeByID(id)
		if err != nil {
			return nil, fmt.Errorf("backend returned an employee outside the snapshot: %w", err)
		}
		rows = append(rows, domain.ResultRow{Employee: employee})
	}
	return rows, nil
}

func (s *QueryService) resolveEmployed(employed []domain.EmployedRow) ([]domain.ResultRow, error) {
	sorted := append([]domain.EmployedRow(nil), employed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EmployeeID < sorted[j].EmployeeID })

	rows := make([]domain.ResultRow, 0, len(sorted))
	for _, e := range sorted {
		employee, err := s.store.EmployeeByID(e.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("backend returned an employee outside the snapshot: %w", err)
		}
		edge := e.Edge
		rows = append(rows, domain.ResultRow{Employee: employee, Employment: &edge})
	}
	return rows, nil
}
