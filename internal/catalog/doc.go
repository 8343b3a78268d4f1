// Package catalog is the complete-schema view the binder resolves foreign key
// targets against.
//
// A Catalog is assembled from the mapping file (FromMapping) and, optionally,
// from a live PostgreSQL schema (Introspector). Once assembled, a
// ColumnResolver bound to the table a key points at serves as the
// keysource.JoinColumnResolutionContext for that key.
package catalog
