// Package catalog defines the loosely-typed records returned by the umd.io course-catalog API.
//
// Every scalar field is a Value, which remembers whether the key was present,
// so formatting can substitute a placeholder instead of failing on missing data.
// Nested sequences tolerate unexpected shapes: elements that do not match are skipped.
package catalog
