// Package field maps filter value references such as "phenomenonTime" to
// the storage shape of the time-valued field they name.
//
// Two shapes exist. An Interval is a start/end column pair. A
// PointWithFallback is a single nullable column that takes the value of a
// fallback column when null; result time falls back to the end of the
// phenomenon time this way.
//
// A Catalog is built once, either with DefaultCatalog or from a CUE
// definition with LoadCatalog, and is read-only afterwards.
package field
