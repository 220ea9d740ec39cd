// Package desurvey turns collar, survey and interval tables into positioned
// drill-hole intervals.
//
// A run goes through four steps:
//
//	Normalize        typed tables, interval rows sorted by (hole id, to)
//	CheckConsistency every interval hole must exist in collar and survey
//	Infill           synthetic rows bound every depth gap by max_infill
//	IntegrateHole    tangential integration from the collar, one hole at a time
//
// Engine.Run wires them together and spreads holes over a bounded worker
// pool. Rows within a hole are always integrated in depth order.
//
// Orientation uses azimuth clockwise from north and dip in degrees. With
// domain.DipSignDown a positive dip lowers elevation; domain.DipSignUp adds
// Δ·sin(dip) to elevation as-is.
package desurvey
