// Package compile is the thin boundary to the external compiler. It defines
// the Engine interface, the dependency record format persisted alongside
// each compiled unit, and the timestamp-based staleness rule that drives
// incremental rebuilds.
package compile
