package service

import (
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/internal/domain/sorting"
)

// PlayerView is a record with its derived metrics filled in.
type PlayerView struct {
	*player.Record
	GoalsPer90            float64 `json:"goals_per_90"`
	AssistsPer90          float64 `json:"assists_per_90"`
	GoalContributionPer90 float64 `json:"goal_contribution_per_90"`
	MinutesPerGame        float64 `json:"minutes_per_game"`
}

func viewOf(r *player.Record) PlayerView {
	return PlayerView{
		Record:                r,
		GoalsPer90:            r.GoalsPer90(),
		AssistsPer90:          r.AssistsPer90(),
		GoalContributionPer90: r.GoalContributionPer90(),
		MinutesPerGame:        r.MinutesPerGame(),
	}
}

func viewsOf(recs []*player.Record) []PlayerView {
	out := make([]PlayerView, len(recs))
	for i, r := range recs {
		out[i] = viewOf(r)
	}
	return out
}

// PlayerDetail adds the generated style description to a PlayerView.
type PlayerDetail struct {
	PlayerView
	StyleDescription string `json:"style_description"`
}

// PlayerPage is one page of a player listing.
type PlayerPage struct {
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Results  []PlayerView `json:"results"`
}

// Standing is one leaderboard row; Standing starts at 1.
type Standing struct {
	PlayerView
	Standing int `json:"standing"`
}

// Leaderboard ranks players by one sort key.
type Leaderboard struct {
	Stat       string         `json:"stat"`
	StatInfo   sorting.Option `json:"stat_info"`
	Players    []Standing     `json:"players"`
	TotalCount int            `json:"total_count"`
}

// SimilarPlayer is a PlayerView with its similarity score.
type SimilarPlayer struct {
	PlayerView
	Score float64 `json:"similarity_score"`
}

// SimilarResult answers a similarity query for one player.
type SimilarResult struct {
	Player         PlayerView          `json:"player"`
	SimilarPlayers []SimilarPlayer     `json:"similar_players"`
	Method         similarity.Strategy `json:"method"`
	Limit          int                 `json:"limit"`
	TotalFound     int                 `json:"total_found"`
}

// OptionSummary is the short form of a sort option used in groupings.
type OptionSummary struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// SortCatalog lists the registered sort options.
type SortCatalog struct {
	Categories          map[string][]OptionSummary `json:"categories"`
	AllOptions          map[string]sorting.Option  `json:"all_options"`
	AvailableCategories []string                   `json:"available_categories"`
}
