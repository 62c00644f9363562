package http

import (
	"fmt"
	"net/http"
	"orghierarchy/src/domain"
	"orghierarchy/src/domain/entities"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) GetAncestors(w http.ResponseWriter, r *http.Request) {
	s.getHierarchy(w, r, domain.AncestorsQuery)
}

func (s *Server) GetDescendants(w http.ResponseWriter, r *http.Request) {
	s.getHierarchy(w, r, domain.DescendantsQuery)
}

func (s *Server) getHierarchy(w http.ResponseWriter, r *http.Request, build func(int64, *int) domain.QueryRequest) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid employee ID format", http.StatusBadRequest)
		return
	}

	// Sem depthLimit a travessia não tem limite
	var maxDepth *int
	if depthLimitStr := r.URL.Query().Get("depthLimit"); depthLimitStr != "" {
		depthLimit, err := strconv.Atoi(depthLimitStr)
		if err != nil {
			http.Error(w, "Invalid depthLimit format", http.StatusBadRequest)
			return
		}
		maxDepth = &depthLimit
	}

	s.runQuery(w, r, build(employeeID, maxDepth))
}

func (s *Server) GetDepartmentMembers(w http.ResponseWriter, r *http.Request) {
	departmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid department ID format", http.StatusBadRequest)
		return
	}

	s.runQuery(w, r, domain.MembersOfDepartmentQuery(departmentID))
}

func (s *Server) GetCompanyEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	request := domain.QueryRequest{Kind: domain.QueryEmployeesByCompanyAttribute}

	if typeStr := query.Get("type"); typeStr != "" {
		employmentType := entities.EmploymentType(typeStr)
		request.EmploymentType = &employmentType
	}

	var salaryRange domain.SalaryRange
	for param, bound := range map[string]**int64{"minSalary": &salaryRange.Min, "maxSalary": &salaryRange.Max} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid %s format", param), http.StatusBadRequest)
			return
		}
		*bound = &value
	}
	if salaryRange.Min != nil || salaryRange.Max != nil {
		request.SalaryRange = &salaryRange
	}

	s.runQuery(w, r, request)
}

func (s *Server) runQuery(w http.ResponseWriter, r *http.Request, request domain.QueryRequest) {
	backend := s.defaultBackend
	if backendStr := r.URL.Query().Get("backend"); backendStr != "" {
		parsed, err := domain.ParseBackend(backendStr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		backend = parsed
	}

	result, err := s.querier.Query(r.Context(), request, backend)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, MapResultToResponse(result))
}
