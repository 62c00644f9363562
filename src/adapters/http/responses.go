package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"orghierarchy/src/domain"
)

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write JSON response", "error", err)
	}
}

// writeError traduz os erros de domínio para status HTTP; o resto vira 500
// com a mensagem genérica.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var loadErr *domain.LoadError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidDepth),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownBackend):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &loadErr):
		http.Error(w, loadErr.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
	}
}
