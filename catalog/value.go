package catalog

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Value is a single loosely-typed JSON field.
// The zero Value is unset, as is an explicit JSON null.
type Value struct {
	res gjson.Result
	set bool
}

// NewValue parses raw JSON into a Value.
func NewValue(raw string) Value {
	res := gjson.Parse(raw)
	return Value{res: res, set: res.Exists() && res.Type != gjson.Null}
}

// String returns Value for a plain string.
func String(s string) Value {
	return Value{res: gjson.Result{Type: gjson.String, Str: s, Raw: quote(s)}, set: true}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	*v = NewValue(string(b))
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return []byte(v.res.Raw), nil
}

// IsSet returns true if the key was present with a non-null value
func (v Value) IsSet() bool {
	return v.set
}

// Or returns the text of the value, or placeholder if it is not set.
func (v Value) Or(placeholder string) string {
	if !v.set {
		return placeholder
	}
	return render(v.res, false)
}

// Text returns the text of the value, or empty string if it is not set.
func (v Value) Text() string {
	return v.Or("")
}

// Strings returns the value as a sequence.
// An unset value is an empty sequence, a scalar is a sequence of one,
// and nested arrays are rendered as bracketed groups.
func (v Value) Strings() []string {
	if !v.set {
		return nil
	}
	if !v.res.IsArray() {
		return []string{render(v.res, false)}
	}
	items := v.res.Array()
	list := make([]string, 0, len(items))
	for _, item := range items {
		list = append(list, render(item, true))
	}
	return list
}

func render(res gjson.Result, nested bool) string {
	switch res.Type {
	case gjson.String:
		return res.Str
	case gjson.Number:
		return res.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return ""
	}

	if res.IsArray() {
		items := res.Array()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, render(item, true))
		}
		s := strings.Join(parts, ", ")
		if nested {
			return "[" + s + "]"
		}
		return s
	}
	// objects are shown as compact JSON
	return gjson.Get(res.Raw, "@ugly").Raw
}

func quote(s string) string {
	js, _ := json.Marshal(s)
	return string(js)
}
