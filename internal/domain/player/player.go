// Package player contains the player statistics record and the values that
// are derived from it on demand (per-90 rates, style description, feature
// vector). Nothing derived is ever stored on the record.
package player

// Record is one player's season statistics as read from the store.
// Instances are request-scoped snapshots and are never mutated by ranking
// or similarity code.
type Record struct {
	ID          int64   `json:"id"`
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	LastName    string  `json:"last_name"`
	Nation      string  `json:"nation"`
	Position    string  `json:"position"`
	Squad       string  `json:"squad"`
	Competition string  `json:"competition"`
	Age         float64 `json:"age"`
	BornYear    int     `json:"born_year"`

	// Playing time
	MatchesPlayed int     `json:"matches_played"`
	Starts        int     `json:"starts"`
	Minutes       int     `json:"minutes"`
	MinutesPer90  float64 `json:"minutes_per_90"`

	// Goals and assists
	Goals               int `json:"goals"`
	Assists             int `json:"assists"`
	GoalsAssists        int `json:"goals_assists"`
	GoalsMinusPenalties int `json:"goals_minus_penalties"`
	PenaltiesScored     int `json:"penalties_scored"`
	PenaltiesAttempted  int `json:"penalties_attempted"`

	// Discipline
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`

	// Expected
	ExpectedGoals           float64 `json:"expected_goals"`
	ExpectedGoalsNonPenalty float64 `json:"expected_goals_non_penalty"`
	ExpectedAssists         float64 `json:"expected_assists"`

	// Shooting
	Shots                   int     `json:"shots"`
	ShotsOnTarget           int     `json:"shots_on_target"`
	ShotsOnTargetPercentage float64 `json:"shots_on_target_percentage"`
	ShotsPer90              float64 `json:"shots_per_90"`
	ShotsOnTargetPer90      float64 `json:"shots_on_target_per_90"`

	// Passing
	PassesCompleted          int     `json:"passes_completed"`
	PassesAttempted          int     `json:"passes_attempted"`
	PassCompletionPercentage float64 `json:"pass_completion_percentage"`
	KeyPasses                int     `json:"key_passes"`

	// Defending
	Tackles       int `json:"tackles"`
	TacklesWon    int `json:"tackles_won"`
	Interceptions int `json:"interceptions"`
	Blocks        int `json:"blocks"`
	Clearances    int `json:"clearances"`

	// Possession
	Touches                  int     `json:"touches"`
	DribblesAttempted        int     `json:"dribbles_attempted"`
	DribblesSuccessful       int     `json:"dribbles_successful"`
	DribbleSuccessPercentage float64 `json:"dribble_success_percentage"`
	ProgressiveCarries       int     `json:"progressive_carries"`
	ProgressivePasses        int     `json:"progressive_passes"`
	ProgressiveReceptions    int     `json:"progressive_receptions"`

	// Goalkeeping, only populated for goalkeepers.
	GoalsAgainst      *float64 `json:"goals_against"`
	GoalsAgainstPer90 *float64 `json:"goals_against_per_90"`
	ShotsFaced        *int     `json:"shots_faced"`
	Saves             *int     `json:"saves"`
	SavePercentage    *float64 `json:"save_percentage"`
	CleanSheets       *int     `json:"clean_sheets"`
}

// Derived metric tags. These name values computed from stored fields at
// query time; they are not columns.
const (
	MetricGoalsPer90            = "goals_per_90"
	MetricAssistsPer90          = "assists_per_90"
	MetricGoalContributionPer90 = "goal_contribution_per_90"
	MetricMinutesPerGame        = "minutes_per_game"
)

var derivedMetrics = map[string]func(*Record) float64{
	MetricGoalsPer90:            (*Record).GoalsPer90,
	MetricAssistsPer90:          (*Record).AssistsPer90,
	MetricGoalContributionPer90: (*Record).GoalContributionPer90,
	MetricMinutesPerGame:        (*Record).MinutesPerGame,
}

// IsDerived reports whether tag names a derived metric.
func IsDerived(tag string) bool {
	_, ok := derivedMetrics[tag]
	return ok
}

// Derived computes the derived metric named by tag. ok is false for tags
// that are not derived metrics.
func (r *Record) Derived(tag string) (value float64, ok bool) {
	fn, ok := derivedMetrics[tag]
	if !ok {
		return 0, false
	}
	return fn(r), true
}

func per90(stat int, minutesPer90 float64) float64 {
	if minutesPer90 <= 0 {
		return 0
	}
	return float64(stat) / minutesPer90
}

// GoalsPer90 is goals per 90 minutes played, 0 without playing time.
func (r *Record) GoalsPer90() float64 { return per90(r.Goals, r.MinutesPer90) }

// AssistsPer90 is assists per 90 minutes played, 0 without playing time.
func (r *Record) AssistsPer90() float64 { return per90(r.Assists, r.MinutesPer90) }

// GoalContributionPer90 is goals plus assists per 90 minutes played.
func (r *Record) GoalContributionPer90() float64 { return per90(r.GoalsAssists, r.MinutesPer90) }

// MinutesPerGame is the average number of minutes per match played.
func (r *Record) MinutesPerGame() float64 {
	if r.MatchesPlayed <= 0 {
		return 0
	}
	return float64(r.Minutes) / float64(r.MatchesPlayed)
}
