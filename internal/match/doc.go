// Package match provides name normalization and Levenshtein ranking used to
// suggest close addressable names when a lookup fails.
//
// Key functions:
//   - Normalize: folds case and strips separators so "ycs_values" matches "YcsValues"
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names against a misspelled one
package match
