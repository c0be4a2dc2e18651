// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/scout/internal/adapters/repository"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/internal/domain/sorting"
	"github.com/okian/scout/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	ListPlayers(ctx context.Context, req service.ListRequest) (service.PlayerPage, error)
	Player(ctx context.Context, id int64) (service.PlayerDetail, error)
	Search(ctx context.Context, q string, f service.Filter, page, pageSize int) (service.PlayerPage, error)
	Leaderboard(ctx context.Context, stat string, limit int, f service.Filter) (service.Leaderboard, error)
	Similar(ctx context.Context, id int64, limit int, strategy similarity.Strategy) (service.SimilarResult, error)
	SortOptions(category string) service.SortCatalog
	Categories() map[string]map[string]sorting.Option
	RegisterSortOption(ctx context.Context, o sorting.Option) error
	UnregisterSortOption(ctx context.Context, key string) error
	Distinct(ctx context.Context, field string) ([]string, error)
	GetStats(ctx context.Context) map[string]any
}

// Limit defaults and caps.
const (
	DefaultSimilarLimit     = 10
	MaxSimilarLimit         = 20
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
)

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
	admin  bool

	defaultSimilar, maxSimilar         int
	defaultLeaderboard, maxLeaderboard int
}

// Option configures a Server.
type Option func(*Server)

// WithAdmin exposes POST and DELETE on /sort-options.
func WithAdmin(enabled bool) Option {
	return func(s *Server) { s.admin = enabled }
}

// WithSimilarLimits sets the default and maximum similar-player limit.
func WithSimilarLimits(def, maxLimit int) Option {
	return func(s *Server) {
		if def > 0 && maxLimit >= def {
			s.defaultSimilar, s.maxSimilar = def, maxLimit
		}
	}
}

// WithLeaderboardLimits sets the default and maximum leaderboard limit.
func WithLeaderboardLimits(def, maxLimit int) Option {
	return func(s *Server) {
		if def > 0 && maxLimit >= def {
			s.defaultLeaderboard, s.maxLeaderboard = def, maxLimit
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(lg logger.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:               deps,
		logger:             logger.Nop(),
		defaultSimilar:     DefaultSimilarLimit,
		maxSimilar:         MaxSimilarLimit,
		defaultLeaderboard: DefaultLeaderboardLimit,
		maxLeaderboard:     MaxLeaderboardLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestID(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", HandleHealth)
	mux.Handle("GET /metrics", MetricsHandler())
	route("GET /stats", "stats", s.handleStats)

	route("GET /players", "players", s.handleListPlayers)
	route("GET /players/search", "players_search", s.handleSearch)
	route("GET /players/{id}", "player", s.handlePlayer)
	route("GET /players/{id}/similar", "similar", s.handleSimilar)
	route("GET /leaderboard", "leaderboard", s.handleLeaderboard)

	route("GET /sort-options", "sort_options", s.handleSortOptions)
	route("GET /sort-options/categories", "sort_categories", s.handleSortCategories)
	route("POST /sort-options", "sort_options_create", s.adminOnly(s.handleRegisterSortOption))
	route("DELETE /sort-options/{key}", "sort_options_delete", s.adminOnly(s.handleUnregisterSortOption))

	route("GET /positions", "positions", s.handleDistinct("position"))
	route("GET /competitions", "competitions", s.handleDistinct("competition"))
	route("GET /teams", "teams", s.handleDistinct("squad"))
	route("GET /nations", "nations", s.handleDistinct("nation"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Valid   []string `json:"valid,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps a dependency error to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		invSort     *sorting.InvalidSortOptionError
		invStrategy *similarity.InvalidStrategyError
	)
	switch {
	case errors.As(err, &invSort):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "invalid_sort_option", Message: invSort.Error(), Valid: invSort.Valid,
		})
	case errors.As(err, &invStrategy):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "invalid_strategy", Message: invStrategy.Error(), Valid: invStrategy.Valid,
		})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrSortOptionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, sorting.ErrUnknownField),
		errors.Is(err, sorting.ErrEmptyKey),
		errors.Is(err, repository.ErrUnknownField),
		errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, similarity.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, similarity.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, "similarity_disabled", err)
	default:
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
