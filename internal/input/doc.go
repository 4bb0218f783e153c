// Package input reads free-parameter value files.
//
// A file is a whitespace-separated table: the first non-comment line holds
// absolute addressable paths and every following line one set of values.
// Lines starting with '#' and blank lines are ignored.
//
//	parameter_transformation[sex].simplex{1} process[Recruitment].r0
//	0.12                                     25000
//	-0.3                                     31000
package input
