package api

import "net/http"

// handleLeaderboard handles GET /leaderboard?stat=&limit= requests.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	limit, err := limitParam(r, s.defaultLeaderboard, s.maxLeaderboard)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	f, err := filterParams(r.URL.Query())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	lb, err := s.deps.Leaderboard(r.Context(), r.URL.Query().Get("stat"), limit, f)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
