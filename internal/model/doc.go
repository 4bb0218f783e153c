// Package model is the run context of the transformation engine.
//
// A Model owns the addressable resolver, the estimates, the transformation
// registry and a set of generic stand-in objects that play the part of the
// simulation's processes and selectivities. Start drives every block through
// its lifecycle and collects every problem before anything is evaluated:
//
//	validate transformations
//	apply input values (-i)
//	create estimates and profiles
//	build transformations
//	verify usage
//	restore natural values
//
// Objective then evaluates the prior and Jacobian part of the objective
// function inside the transformations' prepare/restore guard.
package model
