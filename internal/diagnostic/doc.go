// Package diagnostic provides structured warnings and errors collected while
// validating mapping files and binding foreign keys.
//
// Key capabilities:
//   - Per-entity, per-attribute problem reports with stable codes
//   - Severity levels (info, warning, error)
//   - A combined error for callers that only need pass/fail
package diagnostic
