package similarity

import "strings"

// Strategy selects how similarity is scored.
type Strategy uint8

// Strategies. The zero value is not a valid strategy.
const (
	Statistical Strategy = iota + 1
	NLP
	Hybrid
)

// Strategies lists every strategy in display order.
func Strategies() []Strategy { return []Strategy{Statistical, NLP, Hybrid} }

func (s Strategy) String() string {
	switch s {
	case Statistical:
		return "statistical"
	case NLP:
		return "nlp"
	case Hybrid:
		return "hybrid"
	}
	return "unknown"
}

// MarshalText renders the strategy name.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseStrategy resolves a case-insensitive strategy name.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Strategies() {
		if s.String() == n {
			return s, nil
		}
	}
	return 0, &InvalidStrategyError{Value: name, Valid: strategyNames()}
}

func strategyNames() []string {
	all := Strategies()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.String()
	}
	return out
}
