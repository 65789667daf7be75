// Package domain holds the shared value types of the platekit computation
// cores: plane points, operating lines, composition targets, and the
// condition flags that computations attach to their results instead of
// aborting. All types are plain values; the packages under pkg/ build on
// them.
package domain
