// Package binder turns plural association declarations into foreign keys.
//
// Binding runs in two phases:
//  1. Declare reads a mapping file and records one pending key per owning
//     collection. Nothing is looked up, so entities may reference tables
//     that are declared later in the file.
//  2. Bind runs once the catalog is complete. Each pending key gets its
//     collection table, source columns and value columns, then its target
//     columns are resolved: through the key source's resolution delegate when
//     join columns name referenced columns, or against the owner's primary key
//     otherwise.
//
// Problems with individual keys become diagnostics and the key is skipped, so
// one bad collection does not hide the others.
package binder
