package http

import (
	"encoding/json"
	"net/http"
	"orghierarchy/src/domain"
)

func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	var request CompareRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := s.validate.Struct(request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comparison, err := s.comparer.Compare(r.Context(), request.Request.ToDomain(), domain.Backend(request.Left), domain.Backend(request.Right))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, CompareResponseDTO{
		Equal: comparison.Equal,
		Diff:  comparison.Diff,
		Left:  MapResultToResponse(comparison.Left),
		Right: MapResultToResponse(comparison.Right),
	})
}
