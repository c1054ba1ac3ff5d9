// Package physics implements the Newtonian force law and the diagnostics
// derived from it.
//
// [Gravity] evaluates exact pairwise forces in canonical i<j order and
// reports system energy, momentum and angular momentum using the same pair
// iteration and the same softening floor:
//
//	grav := physics.NewGravity(dynamo.DefaultParams())
//	if err := grav.Forces(ctx, bodies, acc); err != nil {
//	    return err
//	}
//	e := grav.Energy(bodies)
//
// # Softening
//
// When the separation of a pair falls below the softening length r_min, the
// separation is clamped to r_min for both the force and the potential. The
// displacement vector is kept, so coincident bodies exert no force on each
// other instead of producing NaN.
package physics
