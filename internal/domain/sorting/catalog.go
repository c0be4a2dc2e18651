package sorting

import "github.com/okian/scout/internal/domain/player"

// Option describes one sort key.
type Option struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"display_name" yaml:"label"`
	Field       string `json:"field" yaml:"field"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// Categories used by the default catalog.
const (
	CategoryBasic             = "basic"
	CategoryAttacking         = "attacking"
	CategoryAdvancedAttacking = "advanced_attacking"
	CategoryShooting          = "shooting"
	CategoryPassing           = "passing"
	CategoryDefensive         = "defensive"
	CategoryPossession        = "possession"
	CategoryGoalkeeper        = "goalkeeper"
	CategoryPlayingTime       = "playing_time"
	CategoryDiscipline        = "discipline"
)

// DefaultOptions returns the built-in catalog in registration order.
func DefaultOptions() []Option {
	return []Option{
		{"name", "Name (A-Z)", "last_name", "Sort by last name alphabetically", CategoryBasic},
		{"goals", "Goals", "goals", "Total goals scored", CategoryAttacking},
		{"assists", "Assists", "assists", "Total assists provided", CategoryAttacking},
		{"goals_assists", "Goals + Assists", "goals_assists", "Combined goals and assists", CategoryAttacking},
		{"goals_per_90", "Goals per 90", player.MetricGoalsPer90, "Goals scored per 90 minutes", CategoryAttacking},
		{"assists_per_90", "Assists per 90", player.MetricAssistsPer90, "Assists per 90 minutes", CategoryAttacking},
		{"goal_contribution_per_90", "Goal Contributions per 90", player.MetricGoalContributionPer90, "Goals + assists per 90 minutes", CategoryAttacking},
		{"expected_goals", "Expected Goals (xG)", "expected_goals", "Expected goals based on shot quality", CategoryAdvancedAttacking},
		{"expected_assists", "Expected Assists (xA)", "expected_assists", "Expected assists based on pass quality", CategoryAdvancedAttacking},
		{"shots_on_target_percentage", "Shot Accuracy %", "shots_on_target_percentage", "Percentage of shots on target", CategoryShooting},
		{"pass_completion_percentage", "Pass Accuracy %", "pass_completion_percentage", "Pass completion percentage", CategoryPassing},
		{"key_passes", "Key Passes", "key_passes", "Passes leading to shots", CategoryPassing},
		{"tackles", "Tackles", "tackles", "Total tackles made", CategoryDefensive},
		{"interceptions", "Interceptions", "interceptions", "Total interceptions", CategoryDefensive},
		{"blocks", "Blocks", "blocks", "Total blocks", CategoryDefensive},
		{"dribble_success_percentage", "Dribble Success %", "dribble_success_percentage", "Successful dribble percentage", CategoryPossession},
		{"progressive_carries", "Progressive Carries", "progressive_carries", "Carries that advance the ball", CategoryPossession},
		{"progressive_passes", "Progressive Passes", "progressive_passes", "Passes that advance the ball", CategoryPossession},
		{"save_percentage", "Save %", "save_percentage", "Save percentage (goalkeepers only)", CategoryGoalkeeper},
		{"clean_sheets", "Clean Sheets", "clean_sheets", "Clean sheets kept (goalkeepers only)", CategoryGoalkeeper},
		{"goals_against_per_90", "Goals Against per 90", "goals_against_per_90", "Goals conceded per 90 (goalkeepers only)", CategoryGoalkeeper},
		{"matches_played", "Matches Played", "matches_played", "Total matches played", CategoryPlayingTime},
		{"minutes", "Minutes Played", "minutes", "Total minutes played", CategoryPlayingTime},
		{"minutes_per_game", "Minutes per Game", player.MetricMinutesPerGame, "Average minutes per match", CategoryPlayingTime},
		{"yellow_cards", "Yellow Cards", "yellow_cards", "Total yellow cards", CategoryDiscipline},
		{"red_cards", "Red Cards", "red_cards", "Total red cards", CategoryDiscipline},
		{"age", "Age", "age", "Player age", CategoryBasic},
	}
}
