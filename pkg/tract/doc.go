// Package tract defines the records exchanged between the loaders, the
// joiner and the dot sampler.
//
// An [AttributeRecord] carries the demographic counts of one census tract
// and a [GeometryRecord] carries its boundary. Both are keyed by an int64
// tract identifier (a FIPS-style GEOID) produced by [ParseKey]. [Join]
// matches the two sides with inner-join semantics:
//
//	joined, stats := tract.Join(attrTable.Records, geomTable.Records)
//
// Records whose key could not be coerced are kept by the loaders with
// KeyValid set to false and are dropped here, never earlier.
package tract
