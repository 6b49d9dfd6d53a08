// Package encoding provides the JSON, YAML and TOML encoders
// used for tool listings and tool inputs.
package encoding

import (
	"reflect"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "encoding")

// Format of the encoded data
type Format = string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

type Encoder interface {
	Format() Format
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes bs into ret, trimming code fences around the data
	Unmarshal(bs []byte, ret any) error
}

// Faker is a interface for generating structures
// with fake data.
type Faker interface {
	Fake() any
}

// New returns the encoder of the format
func New(format Format) (Encoder, error) {
	switch format {
	case FormatJSON:
		return NewJSONEncoder(), nil
	case FormatYAML:
		return NewYAMLEncoder().WithCommentStyle(LineComment), nil
	case FormatTOML:
		return NewTOMLEncoder(), nil
	}
	return nil, errors.Newf("unsupported format: %q", format)
}

// Example returns an instance of the type of req,
// filled by Fake when implemented, or by gofakeit with `fake` tags.
// The zero instance is returned when gofakeit fails.
func Example(req any) any {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil
	}

	tValue := reflect.New(t)
	if f, ok := tValue.Elem().Interface().(Faker); ok {
		return f.Fake()
	}
	instance := tValue.Interface()
	if err := gofakeit.Struct(instance); err != nil {
		logger.KV(xlog.WARNING,
			"reason", "fake",
			"type", t.String(),
			"err", err.Error(),
		)
		return reflect.New(t).Interface()
	}
	return instance
}
