package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/effective-security/testudo/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-transport", "http", "-addr", ":9000", "-verbose"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "http", f.transport)
	assert.Equal(t, ":9000", f.addr)
	assert.True(t, f.verbose)

	_, err = parseFlags([]string{"-unknown"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(&flags{baseURL: "http://localhost/v1", transport: "http", addr: ":9000", logLevel: "DEBUG"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/v1", cfg.BaseURL)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)

	_, err = loadConfig(&flags{transport: "grpc"})
	assert.EqualError(t, err, `unsupported transport: "grpc"`)

	cfg, err = loadConfig(&flags{transport: "HTTP"})
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Server.Transport)
}

func TestToJSON(t *testing.T) {
	tcases := []struct {
		input  string
		format string
		exp    string
	}{
		{"", "json", ""},
		{`{"Course": "CMSC131"}`, "json", `{"Course":"CMSC131"}`},
		{"```json\n{\"Course\": \"CMSC131\"}\n```", "json", `{"Course":"CMSC131"}`},
		{`Sure: {"Courses": ["CMSC131", "CMSC132"]}`, "json", `{"Courses":["CMSC131","CMSC132"]}`},
		{"Course: CMSC131", "yaml", `{"Course":"CMSC131"}`},
		{`Professor = "Ilchul Yoon"`, "toml", `{"Professor":"Ilchul Yoon"}`},
	}
	for _, tc := range tcases {
		t.Run(tc.format+"/"+tc.input, func(t *testing.T) {
			act, err := toJSON(tc.input, tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, act)
		})
	}

	_, err := toJSON(`{"Course": `, "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode json input")
}

func TestRun_List(t *testing.T) {
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(ctx, []string{"-list", "yaml"}, &stdout, &stderr))

	var d tools.Descriptions
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &d))
	require.Len(t, d.Tools, 7)
	assert.Equal(t, "get_courses", d.Tools[0].Name)
	assert.Equal(t, "get_courses_by_professor", d.Tools[6].Name)
	assert.Equal(t, "Dept: CMSC # Department code such as CMSC.\nGenEd: DSHU # Gen-ed code such as DSHU.\n", d.Tools[0].Example)
	assert.Equal(t, "Course: CMSC131 # Course code such as CMSC131.\n", d.Tools[2].Example)
	assert.Equal(t, "Unable to fetch department or no courses found.", d.Tools[0].Failure)
	assert.Equal(t, "Unable to fetch course or no departments found.", d.Tools[4].Failure)

	stdout.Reset()
	require.NoError(t, run(ctx, []string{"-list", "json"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), `"Name": "get_course_sections"`)
	assert.Contains(t, stdout.String(), `"Parameters"`)
	assert.Contains(t, stdout.String(), `"Example": "{\n\t\"Course\": \"CMSC131\"\n}"`)

	stdout.Reset()
	require.NoError(t, run(ctx, []string{"-list", "toml"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "[[Tools]]")
	assert.Contains(t, stdout.String(), `Name = "get_majors"`)
	assert.NotContains(t, stdout.String(), "Parameters")

	err := run(ctx, []string{"-list", "xml"}, &stdout, &stderr)
	assert.EqualError(t, err, `unsupported list format: "xml"`)
}

func TestRun_Call(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/courses/departments" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `[{"dept_id":"CMSC","department":"Computer Science"}]`)
	}))
	defer api.Close()

	ctx := context.Background()
	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-base-url", api.URL + "/v1", "-call", "get_departments", "-verbose"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "CMSC: Computer Science\n", stdout.String())
	assert.Contains(t, stderr.String(), "Tool End: get_departments [found]")

	stdout.Reset()
	err = run(ctx, []string{"-base-url", api.URL + "/v1", "-call", "get_majors"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "Unable to fetch course or no departments found.\n", stdout.String())

	stdout.Reset()
	err = run(ctx, []string{"-base-url", api.URL + "/v1", "-call", "get_departments", "-input", "```json\n{}\n```"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "CMSC: Computer Science\n", stdout.String())

	stdout.Reset()
	err = run(ctx, []string{"-base-url", api.URL + "/v1", "-call", "get_course_sections", "-input-format", "yaml", "-input", "Course: CMSC999"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "Unable to fetch course or no course found.\n", stdout.String())

	err = run(ctx, []string{"-call", "get_course_sections", "-input-format", "xml", "-input", "<Course/>"}, &stdout, &stderr)
	assert.EqualError(t, err, `unsupported format: "xml"`)

	err = run(ctx, []string{"-base-url", api.URL + "/v1", "-call", "get_weather"}, &stdout, &stderr)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "get_weather: tool not found"), err.Error())
}
