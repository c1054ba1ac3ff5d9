// Package compute provides execution backends for the pairwise force pass.
//
// The force law itself lives in package physics as a [RowKernel]; a backend
// decides how the rows of the i<j pair triangle are scheduled:
//
//   - serial: canonical ascending order, bit-for-bit reproducible
//   - parallel: rows partitioned across workers by pair count, each worker
//     writing a private accumulator that is merged in worker order
//
// For small systems the parallel backend falls back to the serial loop:
//
//	backend := compute.NewCPUBackend(runtime.NumCPU())
//	err := backend.Forces(ctx, bodies, acc, gravity)
//
// Results of the parallel path are deterministic for a fixed worker count
// but are not bit-identical to the serial path.
package compute
