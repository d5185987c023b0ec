// Package compiler compiles OGC temporal filters into predicate trees.
//
// A filter names a temporal relation, a value reference and a reference
// time:
//
//	During(om:phenomenonTime, 2013-07-18T00:00Z/2013-07-18T01:00Z)
//
// Compilation resolves the value reference to a field descriptor, looks up
// the (relation, field shape) rule in the relation catalog and instantiates
// it with the parameters start{n} and end{n}, where n is the 1-based
// position of the filter. The per-filter predicates are combined with AND.
//
// Rejections are reported as *Error with one of three kinds:
// UNSUPPORTED_OPERATOR, UNSUPPORTED_VALUE_REFERENCE and UNSUPPORTED_TIME.
// Compilation is fail-fast and returns no partial result. The package does
// no I/O and never logs.
package compiler
