// Package dynamo provides the core data model of the gravitational N-body kernel.
//
// The package defines the plain value records and the interfaces shared by
// the kernel packages:
//
//   - [Body]: fixed-layout point mass (position, velocity, mass in SI units)
//   - [Bodies]: the ordered body store; index is the only identity
//   - [Forces]: per-step force accumulator, indexed like [Bodies]
//   - [ForceEngine]: computes the accumulator from the current store
//   - [Integrator]: advances the store in place from an accumulator
//   - [EnergySample]: kinetic, potential and total energy at a checkpoint
//
// # Example
//
//	grav := physics.NewGravity(dynamo.DefaultParams())
//	s := sim.New(grav, integrators.NewSymplecticEuler())
//	if err := s.Load(bodies, cfg); err != nil {
//	    return err
//	}
//	result, err := s.Run(ctx)
//
// # Thread Safety
//
// Bodies are owned by a single simulator and are not safe for concurrent
// mutation. The force pass may read them from several goroutines.
package dynamo
