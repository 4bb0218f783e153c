// Package diagnostic provides the error taxonomy of the engine and a collector
// that surfaces every problem found while validating a model before any
// simulation work begins.
//
// Error kinds:
//   - ConfigError: user-facing, fatal, points at the offending block and line
//   - CodeError: an invariant violation inside the engine (a software defect)
//   - warnings: non-fatal notes collected alongside errors
package diagnostic
