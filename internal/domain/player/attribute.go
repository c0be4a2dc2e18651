package player

import "strings"

// Kind is the storage type of an attribute.
type Kind int

// Attribute kinds.
const (
	KindInt Kind = iota
	KindFloat
	KindText
	KindOptionalInt
	KindOptionalFloat
)

// Value is a comparable attribute value. Text attributes set IsText; absent
// optional statistics set Null.
type Value struct {
	Num    float64
	Text   string
	IsText bool
	Null   bool
}

// Compare orders two values of the same attribute: -1, 0 or 1. Null sorts
// below every number so that reversing the direction reverses the order.
func (v Value) Compare(o Value) int {
	switch {
	case v.IsText || o.IsText:
		return strings.Compare(v.Text, o.Text)
	case v.Null && o.Null:
		return 0
	case v.Null:
		return -1
	case o.Null:
		return 1
	case v.Num < o.Num:
		return -1
	case v.Num > o.Num:
		return 1
	}
	return 0
}

// Attribute is a stored, named field of Record.
type Attribute struct {
	Name string
	Kind Kind

	value func(*Record) Value
	field func(*Record) any
}

// Value reads the attribute from r.
func (a Attribute) Value(r *Record) Value { return a.value(r) }

// Field returns a pointer to the attribute's struct field, usable as a scan
// destination (nullable attributes yield a pointer to a pointer).
func (a Attribute) Field(r *Record) any { return a.field(r) }

// Raw returns the attribute's current value as a driver-friendly argument;
// absent optional statistics yield a nil pointer.
func (a Attribute) Raw(r *Record) any {
	switch p := a.field(r).(type) {
	case *int:
		return *p
	case *float64:
		return *p
	case *string:
		return *p
	case **int:
		return *p
	case **float64:
		return *p
	}
	return nil
}

type number interface{ ~int | ~float64 }

func numeric[T number](name string, kind Kind, f func(*Record) *T) Attribute {
	return Attribute{
		Name:  name,
		Kind:  kind,
		value: func(r *Record) Value { return Value{Num: float64(*f(r))} },
		field: func(r *Record) any { return f(r) },
	}
}

func optional[T number](name string, kind Kind, f func(*Record) **T) Attribute {
	return Attribute{
		Name: name,
		Kind: kind,
		value: func(r *Record) Value {
			p := *f(r)
			if p == nil {
				return Value{Null: true}
			}
			return Value{Num: float64(*p)}
		},
		field: func(r *Record) any { return f(r) },
	}
}

func text(name string, f func(*Record) *string) Attribute {
	return Attribute{
		Name:  name,
		Kind:  KindText,
		value: func(r *Record) Value { return Value{Text: *f(r), IsText: true} },
		field: func(r *Record) any { return f(r) },
	}
}

// attributes lists every stored column except id, in schema order.
var attributes = []Attribute{
	numeric("rank", KindInt, func(r *Record) *int { return &r.Rank }),
	text("name", func(r *Record) *string { return &r.Name }),
	text("last_name", func(r *Record) *string { return &r.LastName }),
	text("nation", func(r *Record) *string { return &r.Nation }),
	text("position", func(r *Record) *string { return &r.Position }),
	text("squad", func(r *Record) *string { return &r.Squad }),
	text("competition", func(r *Record) *string { return &r.Competition }),
	numeric("age", KindFloat, func(r *Record) *float64 { return &r.Age }),
	numeric("born_year", KindInt, func(r *Record) *int { return &r.BornYear }),

	numeric("matches_played", KindInt, func(r *Record) *int { return &r.MatchesPlayed }),
	numeric("starts", KindInt, func(r *Record) *int { return &r.Starts }),
	numeric("minutes", KindInt, func(r *Record) *int { return &r.Minutes }),
	numeric("minutes_per_90", KindFloat, func(r *Record) *float64 { return &r.MinutesPer90 }),

	numeric("goals", KindInt, func(r *Record) *int { return &r.Goals }),
	numeric("assists", KindInt, func(r *Record) *int { return &r.Assists }),
	numeric("goals_assists", KindInt, func(r *Record) *int { return &r.GoalsAssists }),
	numeric("goals_minus_penalties", KindInt, func(r *Record) *int { return &r.GoalsMinusPenalties }),
	numeric("penalties_scored", KindInt, func(r *Record) *int { return &r.PenaltiesScored }),
	numeric("penalties_attempted", KindInt, func(r *Record) *int { return &r.PenaltiesAttempted }),

	numeric("yellow_cards", KindInt, func(r *Record) *int { return &r.YellowCards }),
	numeric("red_cards", KindInt, func(r *Record) *int { return &r.RedCards }),

	numeric("expected_goals", KindFloat, func(r *Record) *float64 { return &r.ExpectedGoals }),
	numeric("expected_goals_non_penalty", KindFloat, func(r *Record) *float64 { return &r.ExpectedGoalsNonPenalty }),
	numeric("expected_assists", KindFloat, func(r *Record) *float64 { return &r.ExpectedAssists }),

	numeric("shots", KindInt, func(r *Record) *int { return &r.Shots }),
	numeric("shots_on_target", KindInt, func(r *Record) *int { return &r.ShotsOnTarget }),
	numeric("shots_on_target_percentage", KindFloat, func(r *Record) *float64 { return &r.ShotsOnTargetPercentage }),
	numeric("shots_per_90", KindFloat, func(r *Record) *float64 { return &r.ShotsPer90 }),
	numeric("shots_on_target_per_90", KindFloat, func(r *Record) *float64 { return &r.ShotsOnTargetPer90 }),

	numeric("passes_completed", KindInt, func(r *Record) *int { return &r.PassesCompleted }),
	numeric("passes_attempted", KindInt, func(r *Record) *int { return &r.PassesAttempted }),
	numeric("pass_completion_percentage", KindFloat, func(r *Record) *float64 { return &r.PassCompletionPercentage }),
	numeric("key_passes", KindInt, func(r *Record) *int { return &r.KeyPasses }),

	numeric("tackles", KindInt, func(r *Record) *int { return &r.Tackles }),
	numeric("tackles_won", KindInt, func(r *Record) *int { return &r.TacklesWon }),
	numeric("interceptions", KindInt, func(r *Record) *int { return &r.Interceptions }),
	numeric("blocks", KindInt, func(r *Record) *int { return &r.Blocks }),
	numeric("clearances", KindInt, func(r *Record) *int { return &r.Clearances }),

	numeric("touches", KindInt, func(r *Record) *int { return &r.Touches }),
	numeric("dribbles_attempted", KindInt, func(r *Record) *int { return &r.DribblesAttempted }),
	numeric("dribbles_successful", KindInt, func(r *Record) *int { return &r.DribblesSuccessful }),
	numeric("dribble_success_percentage", KindFloat, func(r *Record) *float64 { return &r.DribbleSuccessPercentage }),
	numeric("progressive_carries", KindInt, func(r *Record) *int { return &r.ProgressiveCarries }),
	numeric("progressive_passes", KindInt, func(r *Record) *int { return &r.ProgressivePasses }),
	numeric("progressive_receptions", KindInt, func(r *Record) *int { return &r.ProgressiveReceptions }),

	optional("goals_against", KindOptionalFloat, func(r *Record) **float64 { return &r.GoalsAgainst }),
	optional("goals_against_per_90", KindOptionalFloat, func(r *Record) **float64 { return &r.GoalsAgainstPer90 }),
	optional("shots_faced", KindOptionalInt, func(r *Record) **int { return &r.ShotsFaced }),
	optional("saves", KindOptionalInt, func(r *Record) **int { return &r.Saves }),
	optional("save_percentage", KindOptionalFloat, func(r *Record) **float64 { return &r.SavePercentage }),
	optional("clean_sheets", KindOptionalInt, func(r *Record) **int { return &r.CleanSheets }),
}

var attributesByName = func() map[string]Attribute {
	m := make(map[string]Attribute, len(attributes)+1)
	for _, a := range attributes {
		m[a.Name] = a
	}
	m["id"] = Attribute{
		Name:  "id",
		Kind:  KindInt,
		value: func(r *Record) Value { return Value{Num: float64(r.ID)} },
		field: func(r *Record) any { return &r.ID },
	}
	return m
}()

// Lookup resolves a stored attribute by name, including "id".
func Lookup(name string) (Attribute, bool) {
	a, ok := attributesByName[name]
	return a, ok
}

// Attributes returns the stored attributes in schema order, excluding id.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributes))
	copy(out, attributes)
	return out
}
