// Package resolve implements the build list resolver: it interprets one
// directory's object descriptor against the flag snapshot and rewrites it
// into concrete compile targets, descent targets and a deterministic
// aggregate composition order.
package resolve
