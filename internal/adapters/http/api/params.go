package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/scout/internal/app"
)

// limitParam reads ?limit. A missing value yields def; a non-integer or
// non-positive value is a bad request; anything above maxLimit is clamped.
func limitParam(r *http.Request, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badParam("limit", raw)
	}
	return min(n, maxLimit), nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam(name, raw)
	}
	return n, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badParam(name, raw)
	}
	return &f, nil
}

// first returns the first non-empty value among names, so aliases such as
// team and squad can share a filter.
func first(q url.Values, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(q.Get(n)); v != "" {
			return v
		}
	}
	return ""
}

func boolParam(q url.Values, name string) bool {
	v, err := strconv.ParseBool(q.Get(name))
	return err == nil && v
}

// filterParams reads the player filters shared by listing endpoints.
func filterParams(q url.Values) (service.Filter, error) {
	f := service.Filter{
		Position:       first(q, "position"),
		Competition:    first(q, "competition", "league"),
		Squad:          first(q, "squad", "team"),
		Nation:         first(q, "nation", "nationality"),
		RegularPlayers: boolParam(q, "regular_players"),
	}
	var err error
	if f.AgeMin, err = floatParam(q, "age_min"); err != nil {
		return f, err
	}
	if f.AgeMax, err = floatParam(q, "age_max"); err != nil {
		return f, err
	}
	for name, dst := range map[string]*int{
		"goals_min":   &f.GoalsMin,
		"assists_min": &f.AssistsMin,
		"min_matches": &f.MinMatches,
		"min_minutes": &f.MinMinutes,
	} {
		if *dst, err = intParam(q, name); err != nil {
			return f, err
		}
	}
	return f, nil
}

// pageParams reads ?page and ?page_size.
func pageParams(q url.Values) (page, size int, err error) {
	if page, err = intParam(q, "page"); err != nil {
		return 0, 0, err
	}
	if page < 0 {
		return 0, 0, badParam("page", q.Get("page"))
	}
	if size, err = intParam(q, "page_size"); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}
