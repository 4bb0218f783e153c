// Package estimate is the minimal @estimate collaborator of the engine: it turns
// an estimate definition into one scalar Estimate per addressed cell, checks the
// bounds, scores the prior and carries the flags a transformation may flip at
// build time (estimated / in objective function).
//
// The minimizer and MCMC sampler that drive estimates are external; they read
// bounds and values through Manager and call Score once per evaluation.
package estimate
