package api

import "net/http"

// handleDistinct serves the distinct values of one text field.
func (s *Server) handleDistinct(field string) http.HandlerFunc {
	op := "api.distinct_" + field
	return func(w http.ResponseWriter, r *http.Request) {
		vals, err := s.deps.Distinct(r.Context(), field)
		if err != nil {
			s.fail(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, vals)
	}
}
