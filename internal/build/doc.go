// Package build is the recursive descent driver. Each directory becomes a
// task that resolves its build list, fans out over its subdirectories and
// source files concurrently, and fans back in at an aggregation barrier that
// produces the directory's aggregate artifact. Sibling subtrees are
// independent: a failure fails every ancestor but never blocks a sibling.
package build
