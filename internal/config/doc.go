// Package config loads model files.
//
// A model file declares the stand-in objects, the @parameter_transformation,
// @estimate and @profile blocks and the run mode. YAML and TOML are accepted,
// chosen by file extension:
//
//	run_mode: estimation
//	objects:
//	  - type: process
//	    label: Recruitment
//	    scalars: {r0: 25000}
//	    string_maps:
//	      proportions: {male: 0.45, female: 0.55}
//	transformations:
//	  - label: sex
//	    type: simplex
//	    parameters: process[Recruitment].proportions
//	estimates:
//	  - label: sex
//	    parameter: parameter_transformation[sex].simplex
//	    lower_bound: -10
//	    upper_bound: 10
//
// Scalar-or-list fields accept either form. String and unsigned maps keep
// their document order in both formats, and unknown keys are errors. YAML
// blocks carry their line number into error messages.
package config
