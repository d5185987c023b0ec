// Package predicate defines the boolean predicate tree produced by the
// temporal filter compiler and consumed by a query layer.
//
// The tree is the abstraction boundary between the compiler and whatever
// renders it (SQL, HQL, an in-memory matcher). It names backing columns and
// parameter placeholders only; literal values travel separately as bindings
// so that a renderer can always parameterise them.
//
//	[temporal filters] → [compiler] → [Predicate + bindings] → [query layer]
//
// SEALED INTERFACE:
//
// Predicate uses the marker method pattern. Only Comparison, IsNull,
// IsNotNull, And and Or implement it, so renderers can switch over the node
// types exhaustively:
//
//	switch p := pred.(type) {
//	case predicate.Comparison:
//	case predicate.IsNull:
//	case predicate.IsNotNull:
//	case predicate.And:
//	case predicate.Or:
//	}
//
// Nodes are plain values with no identity. Two trees built from the same
// inputs are equal under reflect.DeepEqual, which is what the compiler's
// purity guarantees are tested against.
//
// IDENTITY:
//
// Fingerprint hashes the RFC 8785 canonical JSON form of a tree. Parameter
// names take part in the hash, literal values do not, so a query layer can
// use it as a prepared-statement cache key.
package predicate
