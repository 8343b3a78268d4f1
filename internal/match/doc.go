// Package match provides identifier normalization and edit-distance based
// "did you mean" suggestions for column and table names.
//
// Key functions:
//   - NormalizeIdent: folds CamelCase, snake_case and kebab-case to one form
//   - Levenshtein: edit distance between two strings
//   - Suggest: ranks candidate names closest to a misspelled one
package match
