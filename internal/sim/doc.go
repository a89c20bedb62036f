// Package sim runs Monte Carlo simulations over financial models.
//
// A run compiles every model input into a sampler over one shared PCG
// source, then repeats sample-evaluate for the configured iteration count.
// Identical model, configuration, and seed always reproduce the same result;
// samplers draw in input declaration order and fixed inputs consume no
// randomness, so adding a fixed input never shifts the stream.
//
// Non-finite metric values (the +Inf ROI of a zero-cost initiative, a
// never-recovering payback) are kept in the raw samples and counted, but
// excluded from summary statistics so a single unbounded ratio cannot wipe
// out the mean.
package sim
