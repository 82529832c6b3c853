// Package simulation enumerates policy branches and drives each one through
// the dynamics engine for a scenario's horizon.
//
// Branches are the cartesian product of a scenario's lever axes, in axis
// declaration order with the last axis varying fastest. Every branch is
// simulated independently with its own random source, so branches run
// concurrently while the output keeps enumeration order and stays identical
// for a given seed regardless of worker count.
//
// Usage:
//
//	r := simulation.NewRunner(simulation.Config{
//	    Workers: 4,
//	    Random:  random.SeededFactory(42),
//	})
//	out, err := r.Run(ctx, sc, state.Baseline(sc.StartYear))
//	for _, run := range out.Runs {
//	    if err := simulation.CheckInvariants(run, sc.StartYear, sc.HorizonYears, dynamics.DefaultCalibration()); err != nil {
//	        ...
//	    }
//	}
package simulation
