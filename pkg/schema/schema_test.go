package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/testudo/pkg/schema"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type courseSearch struct {
	Dept  string `json:"Dept,omitempty" jsonschema:"title=Department,description=Department code."`
	GenEd string `json:"GenEd,omitempty" jsonschema:"title=Gen Ed,description=Gen Ed code."`
}

type courseCodes struct {
	Courses []string `json:"Courses" jsonschema:"title=Courses,description=Course codes.,minItems=1"`
}

type noArgs struct{}

func TestSchema(t *testing.T) {
	t.Run("optional", func(t *testing.T) {
		s, err := schema.New(reflect.TypeOf(courseSearch{}))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Parameters.Properties.Len())
		assert.Equal(t, "Dept", s.Parameters.Properties.Oldest().Key)
		assert.Equal(t, "GenEd", s.Parameters.Properties.Newest().Key)
		assert.Empty(t, s.Parameters.Required)
		assert.Equal(t, "object", s.Parameters.Type)

		dept, ok := s.Parameters.Properties.Get("Dept")
		require.True(t, ok)
		assert.Equal(t, "string", dept.Type)
		assert.Equal(t, "Department", dept.Title)
		assert.Equal(t, "Department code.", dept.Description)
	})

	t.Run("required array", func(t *testing.T) {
		s, err := schema.New(reflect.TypeOf(&courseCodes{}))
		require.NoError(t, err)
		assert.Equal(t, 1, s.Parameters.Properties.Len())
		assert.Equal(t, []string{"Courses"}, s.Parameters.Required)

		courses, ok := s.Parameters.Properties.Get("Courses")
		require.True(t, ok)
		assert.Equal(t, "array", courses.Type)
		require.NotNil(t, courses.Items)
		assert.Equal(t, "string", courses.Items.Type)
		require.NotNil(t, courses.MinItems)
		assert.Equal(t, uint64(1), *courses.MinItems)
		assert.Contains(t, s.String(), `"minItems": 1`)
	})

	t.Run("no args", func(t *testing.T) {
		s, err := schema.New(reflect.TypeOf(noArgs{}))
		require.NoError(t, err)
		assert.True(t, s.Parameters.Properties == nil || s.Parameters.Properties.Len() == 0)
		assert.Equal(t, "object", s.Parameters.Type)
	})

	t.Run("cached", func(t *testing.T) {
		s1, err := schema.New(reflect.TypeOf(courseSearch{}))
		require.NoError(t, err)
		s2 := schema.MustNew(reflect.TypeOf(&courseSearch{}))
		assert.Same(t, s1, s2)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := schema.New(nil)
		assert.EqualError(t, err, "type must not be nil")
		_, err = schema.New(reflect.TypeOf("string"))
		assert.EqualError(t, err, "expected struct, got string")
		assert.Panics(t, func() {
			schema.MustNew(reflect.TypeOf(42))
		})
	})
}

func TestToFunctionSchema(t *testing.T) {
	item := &jsonschema.Schema{Type: "string", Title: "Code"}
	props := jsonschema.NewProperties()
	props.Set("Code", &jsonschema.Schema{Ref: "#/$defs/Code"})
	props.Set("List", &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Ref: "#/$defs/Code"}})

	raw := &jsonschema.Schema{
		Ref: "#/$defs/Root",
		Definitions: jsonschema.Definitions{
			"Root": {Type: "object", Properties: props, Required: []string{"Code"}},
			"Code": item,
		},
	}

	fs, err := schema.ToFunctionSchema(raw)
	require.NoError(t, err)
	assert.Equal(t, "object", fs.Type)
	assert.Equal(t, []string{"Code"}, fs.Required)

	code, _ := fs.Properties.Get("Code")
	assert.Same(t, item, code)
	list, _ := fs.Properties.Get("List")
	assert.Same(t, item, list.Items)

	bad := jsonschema.NewProperties()
	bad.Set("Missing", &jsonschema.Schema{Ref: "#/$defs/Missing"})
	_, err = schema.ToFunctionSchema(&jsonschema.Schema{Type: "object", Properties: bad})
	assert.EqualError(t, err, "definition not found: #/$defs/Missing")
}
