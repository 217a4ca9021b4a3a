package highlight

import (
	"fmt"
	"math"
)

// Rescorer recomputes an entity's confidence after overlap resolution. The
// result is clamped to [0, 1] by the Deduplicator.
type Rescorer interface {
	Rescore(e ResolvedEntity) float64
}

// RescorerFunc adapts a plain function to the Rescorer interface.
type RescorerFunc func(e ResolvedEntity) float64

// Rescore calls f(e).
func (f RescorerFunc) Rescore(e ResolvedEntity) float64 { return f(e) }

// IdentityRescorer keeps the recognizer's confidence.
var IdentityRescorer Rescorer = RescorerFunc(func(e ResolvedEntity) float64 { return e.Confidence })

// RescorerByName resolves a configured rescorer name. "none" and "" map to
// IdentityRescorer.
func RescorerByName(name string) (Rescorer, error) {
	switch name {
	case "", "none":
		return IdentityRescorer, nil
	default:
		return nil, fmt.Errorf("highlight: unknown rescorer %q", name)
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

//Personal.AI order the ending
