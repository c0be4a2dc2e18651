package similarity

import (
	"math"

	"github.com/okian/scout/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithEnabled turns the engine on or off.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enabled = enabled
	}
}

// WithThreshold sets the minimum kept score, clamped to [0, 1].
func WithThreshold(t float64) Option {
	return func(e *Engine) {
		if math.IsNaN(t) {
			return
		}
		e.threshold = min(max(t, 0), 1)
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
