package api

import (
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/similarity"
)

// handleListPlayers handles GET /players.
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	q := r.URL.Query()
	f, err := filterParams(q)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	page, size, err := pageParams(q)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	order := strings.ToLower(q.Get("sort_order"))
	if order != "" && order != "asc" && order != "desc" {
		s.fail(w, r, op, badParam("sort_order", order))
		return
	}
	res, err := s.deps.ListPlayers(r.Context(), service.ListRequest{
		Filter:    f,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sort_by"),
		Ascending: order == "asc",
		Page:      page,
		PageSize:  size,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSearch handles GET /players/search?q=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_players"
	q := r.URL.Query()
	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingQuery)
		return
	}
	f, err := filterParams(q)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	page, size, err := pageParams(q)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Search(r.Context(), term, f, page, size)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func playerID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badParam("player id", raw)
	}
	return id, nil
}

// handlePlayer handles GET /players/{id}.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	id, err := playerID(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	p, err := s.deps.Player(r.Context(), id)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSimilar handles GET /players/{id}/similar?limit=&method=.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	const op = "api.similar_players"
	id, err := playerID(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	limit, err := limitParam(r, s.defaultSimilar, s.maxSimilar)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	method := r.URL.Query().Get("method")
	if method == "" {
		method = similarity.Hybrid.String()
	}
	strategy, err := similarity.ParseStrategy(method)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Similar(r.Context(), id, limit, strategy)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
