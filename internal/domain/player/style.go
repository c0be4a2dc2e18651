package player

import "strings"

// VersatilePlayer is the description of a record that triggers no rule.
const VersatilePlayer = "versatile player"

// Style thresholds. Every comparison is strict.
const (
	prolificGoals          = 10
	creativeAssists        = 5
	midfieldTackles        = 20
	defenderTackles        = 30
	accuratePassPct        = 85.0
	shotStopperSavePct     = 75.0
	skilledDribblePct      = 60.0
	clinicalShotPct        = 50.0
	progressivePassesCount = 50
	ballCarrierCarries     = 30
	youngAge               = 23.0
	experiencedAge         = 30.0
)

// StyleDescription renders a deterministic, space-separated summary of the
// record's playing profile. It is recomputed on every call.
func StyleDescription(r *Record) string {
	parts := make([]string, 0, 8)

	switch {
	case strings.Contains(r.Position, "FW"):
		parts = append(parts, "attacking player")
		if r.Goals > prolificGoals {
			parts = append(parts, "prolific goalscorer")
		}
		if r.Assists > creativeAssists {
			parts = append(parts, "creative playmaker")
		}
	case strings.Contains(r.Position, "MF"):
		parts = append(parts, "midfielder")
		if r.Assists > creativeAssists {
			parts = append(parts, "creative midfielder")
		}
		if r.Tackles > midfieldTackles {
			parts = append(parts, "defensive midfielder")
		}
	case strings.Contains(r.Position, "DF"):
		parts = append(parts, "defender")
		if r.Tackles > defenderTackles {
			parts = append(parts, "strong tackler")
		}
		if r.PassCompletionPercentage > accuratePassPct {
			parts = append(parts, "ball-playing defender")
		}
	case strings.Contains(r.Position, "GK"):
		parts = append(parts, "goalkeeper")
		if r.SavePercentage != nil && *r.SavePercentage > shotStopperSavePct {
			parts = append(parts, "reliable shot-stopper")
		}
	}

	if r.DribbleSuccessPercentage > skilledDribblePct {
		parts = append(parts, "skilled dribbler")
	}
	if r.PassCompletionPercentage > accuratePassPct {
		parts = append(parts, "accurate passer")
	}
	if r.ShotsOnTargetPercentage > clinicalShotPct {
		parts = append(parts, "clinical finisher")
	}
	if r.ProgressivePasses > progressivePassesCount {
		parts = append(parts, "progressive passer")
	}
	if r.ProgressiveCarries > ballCarrierCarries {
		parts = append(parts, "ball carrier")
	}

	switch {
	case r.Age < youngAge:
		parts = append(parts, "young talent")
	case r.Age > experiencedAge:
		parts = append(parts, "experienced player")
	}

	if len(parts) == 0 {
		return VersatilePlayer
	}
	return strings.Join(parts, " ")
}
