package optimizer

import "math"

// Weights holds the fitness penalty weights. Hard applies outside the
// [minimum, maximum] band, Soft to deviation from target inside it. Hard must
// stay one to two orders of magnitude above Soft so any in-bounds candidate
// outranks any out-of-bounds one.
type Weights struct {
	Hard float64
	Soft float64
}

// DefaultWeights returns the tuned defaults. These are configuration, not a
// correctness property.
func DefaultWeights() Weights {
	return Weights{Hard: 100, Soft: 1}
}

// Evaluate scores a nutrient vector against a constraint set. Lower is
// better; 0 means every tracked nutrient sits exactly at its target.
func Evaluate(vec NutrientVector, cs ConstraintSet, w Weights) float64 {
	var fitness float64
	for name, c := range cs {
		v := vec[name]
		switch {
		case v < c.Minimum:
			fitness += w.Hard * (c.Minimum - v)
		case v > c.Maximum:
			fitness += w.Hard * (v - c.Maximum)
		default:
			fitness += w.Soft * math.Abs(v-c.Target)
		}
	}
	return fitness
}
