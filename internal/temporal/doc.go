// Package temporal provides the time model shared by every other package in
// sostime: the closed set of OGC/Allen temporal relations and the reference
// time values (instants and periods) a temporal filter is evaluated against.
//
// This package contains value types only. It imports nothing internal, so the
// field, relation and compiler packages can all build on it without cycles.
//
// Key design constraints:
//   - Relation is a closed enumeration; its zero value is not a relation
//   - Value is a sealed interface implemented only by Instant and Period
//   - An Instant is a degenerate Period: Normalize maps both onto a
//     (start, end) pair so relation formulas are written once
//   - A Period whose start is after its end is malformed and rejected by
//     Normalize, never silently reordered
package temporal
