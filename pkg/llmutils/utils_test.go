package llmutils_test

import (
	"testing"

	"github.com/effective-security/testudo/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	input := "\n```json\n\n{\"Course\": \"CMSC131\"}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(input))
	assert.Equal(t, `{"Course": "CMSC131"}`, string(clean))

	input = "Here you go:\n```json\n\n[\"CMSC131\", \"CMSC132\"]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(input))
	assert.Equal(t, `["CMSC131", "CMSC132"]`, string(clean))

	assert.Equal(t, "plain string", string(llmutils.CleanJSON([]byte("plain string"))))
	assert.Equal(t, `{"Courses": ["CMSC131"]}`, string(llmutils.CleanJSON([]byte(`args: {"Courses": ["CMSC131"]} thanks`))))
}

type listing struct {
	Name string   `json:"Name"`
	Tags []string `json:"Tags,omitempty"`
}

func Test_Encoders(t *testing.T) {
	v := listing{Name: "get_majors", Tags: []string{"a", "b"}}

	assert.Equal(t, `{"Name":"get_majors","Tags":["a","b"]}`, llmutils.ToJSON(v))
}

func Test_EnsureNewline(t *testing.T) {
	assert.Equal(t, "", llmutils.EnsureEndsWithNewline(" \n"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline(" \nHello"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline("\nHello\n"))
	assert.Equal(t, "Hello\n", llmutils.EnsureEndsWithNewline("Hello\n\n\n"))
}

func Test_TrimBackticks(t *testing.T) {
	tcases := []struct {
		in  string
		exp string
	}{
		{"Course: CMSC131", "Course: CMSC131"},
		{"```yaml\nCourse: CMSC131\n```", "Course: CMSC131"},
		{"Here:\n```\nCourse = \"CMSC131\"\n```\nthanks", `Course = "CMSC131"`},
		{"```json{\"Course\":\"CMSC131\"}```", `json{"Course":"CMSC131"}`},
		{"```\nunterminated", "unterminated"},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, string(llmutils.BytesTrimBackticks([]byte(tc.in))), tc.in)
	}
}
