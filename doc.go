// Package geometry describes the shape of multidimensional data and
// addresses cells within it.
//
// A Geometry aggregates at most one space and one time Dimension. Every
// geometry has a canonical text encoding, for example
//
//	T1(12){tstart=1577836800000}S2(200,100){proj=EPSG:4326}
//
// which Parse reads back. Encodings are used for equality and as cache keys,
// so Parse(g.Encode()).Encode() == g.Encode() always holds.
//
// NDCursor converts between linear offsets and per-dimension coordinates.
// Offset is a possibly partial position within a geometry, and iterating a
// non-scalar Offset enumerates the cells it covers.
package geometry
