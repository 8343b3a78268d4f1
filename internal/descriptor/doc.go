// Package descriptor holds the parsed, immutable description of mapped
// columns and plural association attributes.
//
// Descriptors are produced by a loader (see package mapping) and consumed by
// key sources. Nothing mutates a descriptor after construction, so one
// instance may be shared by any number of readers.
package descriptor
