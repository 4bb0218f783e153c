// Package transform implements @parameter_transformation blocks: reversible
// reparameterizations of one or more addressables that track the negative-log
// Jacobian needed to evaluate a transformed objective function.
//
// # Lifecycle
//
// A Block moves through Created -> Validated -> Built -> Active:
//
//	b, _ := transform.New(cfg, env) // registers the block's own addressables
//	b.Validate()                    // resolve parameters, snapshot, forward map
//	b.Build()                       // pair with @estimate blocks, enforce rules
//	b.Verify()                      // no estimate/profile on the same target
//	b.Restore()                     // transformed -> natural, written through handles
//
// Restore, PrepareForObjectiveFunction and RestoreForObjectiveFunction are
// repeatable once the block is built.
//
// # Kinds
//
//	log                 y = ln(x)
//	inverse             y = 1/x
//	sqrt                y = sqrt(x)
//	logistic            y = logit((x-a)/(b-a))
//	difference          y1 = x1, y2 = x1-x2
//	average_difference  y1 = (x1+x2)/2, y2 = (y1-x2)*2
//	sum_to_one          y = x1, x2 = 1-x1
//	log_sum             y1 = ln(x1+x2), y2 = x1/(x1+x2)
//	orthogonal          y1 = x1*x2, y2 = x1/x2
//	simplex             logistic stick-breaking over n-1 reals
//
// # Objective function
//
// When prior_applies_to_restored_parameters is set, the priors of the paired
// estimates are evaluated on natural-space values: the Registry swaps the
// block's own addressables to natural values for the duration of one
// evaluation (see Registry.Objective) and Score adds the Jacobian term.
package transform
