package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// OrbitClosure returns |final - initial| for body i divided by scale. For
// one full period of a bound two-body orbit it should be close to zero.
func OrbitClosure(initial, final dynamo.Bodies, i int, scale float64) (float64, error) {
	if len(initial) != len(final) {
		return 0, fmt.Errorf("%w: %d vs %d bodies", dynamo.ErrDimensionMismatch, len(initial), len(final))
	}
	if i < 0 || i >= len(initial) {
		return 0, fmt.Errorf("body index %d out of range [0, %d)", i, len(initial))
	}
	if scale <= 0 {
		scale = 1
	}
	return final[i].Pos().Sub(initial[i].Pos()).Norm() / scale, nil
}

// Divergence is the root mean square position difference between two body
// sets of equal size, in meters.
func Divergence(a, b dynamo.Bodies) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d bodies", dynamo.ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}

	sum := 0.0
	for i := range a {
		sum += a[i].Pos().Sub(b[i].Pos()).Norm2()
	}
	return math.Sqrt(sum / float64(len(a))), nil
}
