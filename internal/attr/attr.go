package attr

// Attribute is a clamped integer stat. Every mutation re-clamps, so
// Min <= Value <= Max holds after any operation.
type Attribute struct {
	Value int `json:"value"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// New creates an attribute, clamping the initial value into [min, max].
func New(initial, min, max int) Attribute {
	return Attribute{Value: Clamp(initial, min, max), Min: min, Max: max}
}

// Set assigns a value, clamping it into bounds, and returns the result.
func (a *Attribute) Set(v int) int {
	a.Value = Clamp(v, a.Min, a.Max)
	return a.Value
}

// Apply adds delta to the current value, clamping, and returns the result.
func (a *Attribute) Apply(delta int) int {
	return a.Set(a.Value + delta)
}

// Clamp returns v limited to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Crossed reports whether a value moved from below threshold to
// at-or-above it. Crossings are edge-triggered: staying above the
// threshold or moving down never counts.
func Crossed(old, new, threshold int) bool {
	return old < threshold && threshold <= new
}

// CrossedAny returns the thresholds crossed upward by the old -> new
// transition, in the order given.
func CrossedAny(old, new int, thresholds []int) []int {
	var crossed []int
	for _, t := range thresholds {
		if Crossed(old, new, t) {
			crossed = append(crossed, t)
		}
	}
	return crossed
}
