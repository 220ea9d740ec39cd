// Package planner projects straight planned drill holes from a collar,
// azimuth, dip and depth, and recovers the orientation of an existing
// straight segment.
package planner
