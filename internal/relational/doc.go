// Package relational holds the relational side of a mapping: tables, their
// columns and derived values, primary/unique keys and foreign keys.
//
// The model is built incrementally. Tables and columns may be created before
// the tables they reference exist, and foreign keys are attached once both
// ends are known.
package relational
