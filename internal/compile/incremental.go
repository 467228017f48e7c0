package compile

import (
	"os"
	"time"

	"github.com/vk/objtree/internal/resolve"
)

// NeedsRebuild reports whether a target's previous output may be reused.
// A unit is reused iff its source file and every file in its previous
// dependency record are all strictly older than the existing object. The
// check is deliberately conservative: a missing object, a missing or
// malformed record, or an unreadable dependency all force a rebuild.
func NeedsRebuild(target resolve.CompileTarget) bool {
	objInfo, err := os.Stat(target.Object)
	if err != nil {
		return true
	}
	objTime := objInfo.ModTime()

	if newerThan(target.Source, objTime) {
		return true
	}

	rec, err := ReadRecord(target.DepFile)
	if err != nil {
		return true
	}
	for _, dep := range rec.Deps {
		if newerThan(dep, objTime) {
			return true
		}
	}
	return false
}

// newerThan reports whether path was modified at or after ref, treating an
// unreadable path as newer (rebuild).
func newerThan(path string, ref time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return !info.ModTime().Before(ref)
}
