// Package format renders catalog records as deterministic multi-line text.
//
// Every function is total: a missing field is replaced by a fixed placeholder,
// a missing nested block is omitted, and an empty sequence renders as empty text.
package format

import (
	"strings"

	"github.com/effective-security/testudo/catalog"
)

// Separator is placed between formatted records.
const Separator = "\n---\n"

// Placeholders
const (
	Unknown       = "Unknown"
	NotAvailable  = "N/A"
	None          = "None"
	NoName        = "No name provided"
	NoDepartment  = "No department"
	NoDescription = "No description"
	NoCourse      = "No Course"
)

const indent = "  "

// Join joins already formatted records with Separator.
func Join(parts []string) string {
	return strings.Join(parts, Separator)
}

// All formats every record with fn and joins the results with Separator.
func All[T any](list []T, fn func(*T) string) string {
	parts := make([]string, 0, len(list))
	for i := range list {
		parts = append(parts, fn(&list[i]))
	}
	return Join(parts)
}

type block struct {
	b strings.Builder
}

// line writes `label: value`; an empty value leaves just `label:`.
func (b *block) line(label, value string) {
	b.b.WriteString(label)
	b.b.WriteByte(':')
	if value != "" {
		b.b.WriteByte(' ')
		b.b.WriteString(value)
	}
	b.b.WriteByte('\n')
}

// nested writes label on its own line followed by text indented one level;
// empty text leaves the label alone.
func (b *block) nested(label, text string) {
	b.b.WriteString(label)
	b.b.WriteString(":")
	if text != "" {
		b.b.WriteByte('\n')
		b.b.WriteString(indentLines(text))
	}
	b.b.WriteByte('\n')
}

func (b *block) String() string {
	return strings.TrimSuffix(b.b.String(), "\n")
}

func indentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// list renders a sequence-typed field: joined when present, placeholder when absent.
func list(v catalog.Value, placeholder string) string {
	if !v.IsSet() {
		return placeholder
	}
	return strings.Join(v.Strings(), ", ")
}
