package compile

import (
	"fmt"
	"os"
	"strings"
)

// Record is the dependency record of one compiled unit: the set of auxiliary
// files (headers) observed during its compilation. It is persisted next to
// the unit so a later run can decide staleness without recompiling.
type Record struct {
	Object string
	Deps   []string
}

// ReadRecord parses a Make-style dependency file as emitted by `cc -MD`.
// Line continuations are folded; phony targets (from -MP) are skipped.
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\\\r\n", " ")
	text = strings.ReplaceAll(text, "\\\n", " ")

	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		return nil, fmt.Errorf("malformed dependency record %s: no rule found", path)
	}

	rec := &Record{Object: unescapePath(strings.TrimSpace(text[:colon]))}
	for _, tok := range splitPaths(text[colon+1:]) {
		if strings.HasSuffix(tok, ":") {
			continue
		}
		rec.Deps = append(rec.Deps, tok)
	}
	return rec, nil
}

// splitPaths splits a whitespace-separated path list, honoring the
// backslash-escaped spaces the compiler emits for paths that contain them.
func splitPaths(s string) []string {
	var paths []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s) && s[i+1] == ' ':
			b.WriteByte(' ')
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if b.Len() > 0 {
				paths = append(paths, b.String())
				b.Reset()
			}
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		paths = append(paths, b.String())
	}
	return paths
}

func unescapePath(s string) string {
	return strings.ReplaceAll(s, `\ `, " ")
}

func escapePath(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// WriteRecord writes a dependency record in the same Make-style format the
// external compiler produces.
func WriteRecord(path string, rec *Record) error {
	var sb strings.Builder
	sb.WriteString(escapePath(rec.Object))
	sb.WriteString(":")
	for _, dep := range rec.Deps {
		sb.WriteString(" ")
		sb.WriteString(escapePath(dep))
	}
	sb.WriteString("\n")
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
