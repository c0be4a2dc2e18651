package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/scout/internal/domain/sorting"
)

// maxOptionBody bounds the size of a sort option payload.
const maxOptionBody = 16 << 10

// handleSortOptions handles GET /sort-options?category=.
func (s *Server) handleSortOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.SortOptions(r.URL.Query().Get("category")))
}

// handleSortCategories handles GET /sort-options/categories.
func (s *Server) handleSortCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Categories())
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.admin {
			writeError(w, http.StatusForbidden, "forbidden", ErrAdminDisabled)
			return
		}
		next(w, r)
	}
}

// handleRegisterSortOption handles POST /sort-options.
func (s *Server) handleRegisterSortOption(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_sort_option"
	var o sorting.Option
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOptionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		s.fail(w, r, op, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := s.deps.RegisterSortOption(r.Context(), o); err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// handleUnregisterSortOption handles DELETE /sort-options/{key}.
func (s *Server) handleUnregisterSortOption(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister_sort_option"
	if err := s.deps.UnregisterSortOption(r.Context(), r.PathValue("key")); err != nil {
		s.fail(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
